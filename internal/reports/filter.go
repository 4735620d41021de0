package reports

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/metadata"
)

const dateLayout = "2006-01-02"

// Filter is the conjunction of the report form fields. Zero values mean "any".
type Filter struct {
	TipoMovimiento string `form:"tipo_movimiento" json:"tipo_movimiento"`
	InsumoID       int    `form:"insumo_id" json:"insumo_id"`
	ServicioID     int    `form:"servicio_id" json:"servicio_id"`
	UsuarioID      int    `form:"usuario_id" json:"usuario_id"`
	FechaInicio    string `form:"fecha_inicio" json:"fecha_inicio"`
	FechaFin       string `form:"fecha_fin" json:"fecha_fin"`
}

func (f *Filter) Validate() error {
	if strings.TrimSpace(f.TipoMovimiento) != "" {
		movementType, err := metadata.NewMovementType(f.TipoMovimiento)
		if err != nil {
			return custom_error.NewValidationError("tipo_movimiento", err.Error())
		}
		f.TipoMovimiento = movementType.String()
	}
	if f.InsumoID < 0 || f.ServicioID < 0 || f.UsuarioID < 0 {
		return custom_error.NewValidationError("id", "ids must be positive")
	}
	for field, value := range map[string]string{"fecha_inicio": f.FechaInicio, "fecha_fin": f.FechaFin} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, value); err != nil {
			return custom_error.NewValidationError(field, "dates must be YYYY-MM-DD")
		}
	}
	return nil
}

// Params encodes only the fields that are set.
func (f Filter) Params() url.Values {
	q := newQueryBuilder()
	q.AddCondition("tipo_movimiento", strings.TrimSpace(f.TipoMovimiento))
	q.AddCondition("insumo_id", id(f.InsumoID))
	q.AddCondition("servicio_id", id(f.ServicioID))
	q.AddCondition("usuario_id", id(f.UsuarioID))
	q.AddCondition("fecha_inicio", f.FechaInicio)
	q.AddCondition("fecha_fin", f.FechaFin)
	return q.Build()
}

func id(value int) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value)
}

type queryBuilder struct {
	conditions map[string]string
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		conditions: make(map[string]string),
	}
}

func (q *queryBuilder) AddCondition(key, value string) {
	if value == "" {
		return
	}
	q.conditions[key] = value
}

func (q *queryBuilder) Build() url.Values {
	values := url.Values{}
	for key, value := range q.conditions {
		values.Set(key, value)
	}
	return values
}
