package reference

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"
)

// Kind names a lookup list that screens may hold a copy of.
type Kind string

const (
	Supplies Kind = "insumos"
	Services Kind = "servicios"
	Users    Kind = "usuarios"
)

const (
	suppliesPath      = "/api/inventory/insumos/"
	servicesPath      = "/api/inventory/servicios/"
	usersPath         = "/api/inventory/usuarios/"
	lotsPath          = "/api/inventory/lotes/"
	adminSuppliesPath = "/api/inventory/admin/insumos/"
	adminServicesPath = "/api/inventory/admin/servicios/"
	adminUsersPath    = "/api/inventory/admin/usuarios/"
)

// Refresher is told which lists went stale after a mutation.
type Refresher interface {
	Refresh(ctx context.Context, cred gateway.Credential, kinds ...Kind)
}

// Loader fetches flat lookup lists. Nothing is cached: every call hits the API.
type Loader struct {
	api gateway.Requester
}

func NewLoader(api gateway.Requester) *Loader {
	return &Loader{api: api}
}

func (l *Loader) Supplies(ctx context.Context, cred gateway.Credential) ([]models.Supply, error) {
	var supplies []models.Supply
	if err := l.list(ctx, cred, suppliesPath, &supplies); err != nil {
		return nil, fmt.Errorf("load supplies: %w", err)
	}
	return supplies, nil
}

func (l *Loader) Services(ctx context.Context, cred gateway.Credential) ([]models.Service, error) {
	var services []models.Service
	if err := l.list(ctx, cred, servicesPath, &services); err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	return services, nil
}

func (l *Loader) Users(ctx context.Context, cred gateway.Credential) ([]models.User, error) {
	var users []models.User
	if err := l.list(ctx, cred, usersPath, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

// Lots returns the lots of a supply that still hold stock.
func (l *Loader) Lots(ctx context.Context, cred gateway.Credential, supplyID int) ([]models.Lot, error) {
	if supplyID <= 0 {
		return nil, custom_error.NewValidationError("insumo_id", "select a supply first")
	}

	var lots []models.Lot
	query := url.Values{"insumo_id": []string{strconv.Itoa(supplyID)}}
	if err := l.list(ctx, cred, lotsPath+"?"+query.Encode(), &lots); err != nil {
		return nil, fmt.Errorf("load lots of supply %d: %w", supplyID, err)
	}

	withStock := make([]models.Lot, 0, len(lots))
	for _, lot := range lots {
		if lot.Stock > 0 {
			withStock = append(withStock, lot)
		}
	}
	return withStock, nil
}

func (l *Loader) AdminSupplies(ctx context.Context, cred gateway.Credential) ([]models.Supply, error) {
	var supplies []models.Supply
	if err := l.list(ctx, cred, adminSuppliesPath, &supplies); err != nil {
		return nil, fmt.Errorf("load admin supplies: %w", err)
	}
	return supplies, nil
}

func (l *Loader) AdminServices(ctx context.Context, cred gateway.Credential) ([]models.Service, error) {
	var services []models.Service
	if err := l.list(ctx, cred, adminServicesPath, &services); err != nil {
		return nil, fmt.Errorf("load admin services: %w", err)
	}
	return services, nil
}

func (l *Loader) AdminUsers(ctx context.Context, cred gateway.Credential) ([]models.User, error) {
	var users []models.User
	if err := l.list(ctx, cred, adminUsersPath, &users); err != nil {
		return nil, fmt.Errorf("load admin users: %w", err)
	}
	return users, nil
}

func (l *Loader) list(ctx context.Context, cred gateway.Credential, path string, result interface{}) error {
	return l.api.Do(ctx, cred, http.MethodGet, path, nil, result)
}
