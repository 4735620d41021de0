package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/auditlog"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"go.uber.org/zap"
)

const (
	suppliesPath = "/api/inventory/admin/insumos/"
	servicesPath = "/api/inventory/admin/servicios/"
	usersPath    = "/api/inventory/admin/usuarios/"
)

const (
	FlagStaff  = "is_staff"
	FlagActive = "is_active"
)

// Outcome is the result of a create command: the entity the API returned and
// the selector lists that now have to be reloaded.
type Outcome[T any] struct {
	Entity      T                `json:"entity"`
	Invalidates []reference.Kind `json:"invalidates"`
}

type Tables struct {
	Supplies reference.Listing[models.Supply]  `json:"insumos"`
	Services reference.Listing[models.Service] `json:"servicios"`
	Users    reference.Listing[UserRow]        `json:"usuarios"`
}

// UserRow is a user of the admin table with its toggles resolved for the viewer.
type UserRow struct {
	models.User
	Locked bool `json:"locked"`
}

type Panel struct {
	api       gateway.Requester
	loader    *reference.Loader
	refresher reference.Refresher
	audit     *auditlog.Auditlog
	logger    *zap.Logger
}

func NewPanel(api gateway.Requester, loader *reference.Loader, refresher reference.Refresher, audit *auditlog.Auditlog, logger *zap.Logger) *Panel {
	return &Panel{
		api:       api,
		loader:    loader,
		refresher: refresher,
		audit:     audit,
		logger:    logger,
	}
}

// Tables loads the three admin tables; each one fails independently. An
// expired session stops the loading and is the only error returned.
func (p *Panel) Tables(ctx context.Context, cred gateway.Credential, viewer string) (Tables, error) {
	tables := Tables{
		Supplies: reference.Mark([]models.Supply{}, nil),
		Services: reference.Mark([]models.Service{}, nil),
		Users:    reference.Mark([]UserRow{}, nil),
	}

	supplies, err := p.loader.AdminSupplies(ctx, cred)
	if errors.Is(err, custom_error.ErrSessionExpired) {
		return tables, err
	}
	tables.Supplies = reference.Mark(supplies, err)

	services, err := p.loader.AdminServices(ctx, cred)
	if errors.Is(err, custom_error.ErrSessionExpired) {
		return tables, err
	}
	tables.Services = reference.Mark(services, err)

	users, err := p.loader.AdminUsers(ctx, cred)
	if errors.Is(err, custom_error.ErrSessionExpired) {
		return tables, err
	}
	rows := make([]UserRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, UserRow{User: user, Locked: !CanToggle(user, viewer)})
	}
	tables.Users = reference.Mark(rows, err)

	return tables, nil
}

func (p *Panel) CreateSupply(ctx context.Context, cred gateway.Credential, username string, req models.CreateSupplyRequest) (*Outcome[models.Supply], error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, custom_error.NewValidationError("nombre", "name is required")
	}
	if req.Threshold < 0 {
		return nil, custom_error.NewValidationError("umbral_critico", "threshold must be 0 or more")
	}
	if req.ProductCode != nil {
		code := strings.TrimSpace(*req.ProductCode)
		req.ProductCode = &code
	}

	var supply models.Supply
	if err := p.api.Do(ctx, cred, http.MethodPost, suppliesPath, req, &supply); err != nil {
		return nil, p.failure("create supply", custom_error.Narrow(err, "codigo_producto", "nombre"))
	}

	p.audit.Log("create", username, map[string]interface{}{"nombre": supply.Name}, &supply)
	return &Outcome[models.Supply]{Entity: supply, Invalidates: p.invalidate(ctx, cred, reference.Supplies)}, nil
}

func (p *Panel) CreateService(ctx context.Context, cred gateway.Credential, username string, req models.CreateServiceRequest) (*Outcome[models.Service], error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, custom_error.NewValidationError("nombre", "name is required")
	}

	var service models.Service
	if err := p.api.Do(ctx, cred, http.MethodPost, servicesPath, req, &service); err != nil {
		return nil, p.failure("create service", custom_error.Narrow(err, "nombre"))
	}

	p.audit.Log("create", username, map[string]interface{}{"nombre": service.Name}, &service)
	return &Outcome[models.Service]{Entity: service, Invalidates: p.invalidate(ctx, cred, reference.Services)}, nil
}

func (p *Panel) CreateUser(ctx context.Context, cred gateway.Credential, username string, req models.CreateUserRequest) (*Outcome[models.User], error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, custom_error.NewValidationError("username", "username is required")
	}
	if req.Password == "" {
		return nil, custom_error.NewValidationError("password", "password is required")
	}

	var user models.User
	if err := p.api.Do(ctx, cred, http.MethodPost, usersPath, req, &user); err != nil {
		return nil, p.failure("create user", custom_error.Narrow(err, "username", "password"))
	}

	p.audit.Log("create", username, map[string]interface{}{"username": user.Username, "is_staff": user.IsStaff}, &user)
	return &Outcome[models.User]{Entity: user, Invalidates: p.invalidate(ctx, cred, reference.Users)}, nil
}

func (p *Panel) UpdateThreshold(ctx context.Context, cred gateway.Credential, username string, supplyID, value int) (*models.Supply, error) {
	if supplyID <= 0 {
		return nil, custom_error.NewValidationError("id", "unknown supply")
	}
	if value < 0 {
		return nil, custom_error.NewValidationError("umbral_critico", "threshold must be 0 or more")
	}

	var supply models.Supply
	path := fmt.Sprintf("%s%d/", suppliesPath, supplyID)
	if err := p.api.Do(ctx, cred, http.MethodPatch, path, models.ThresholdPatch{Threshold: value}, &supply); err != nil {
		return nil, p.failure("update threshold", err)
	}

	p.audit.Log("update", username, map[string]interface{}{"umbral_critico": value}, &supply)
	return &supply, nil
}

// SetUserFlag resolves the target against a fresh admin list before patching,
// so the decision never relies on a table the browser may have kept stale.
func (p *Panel) SetUserFlag(ctx context.Context, cred gateway.Credential, username string, userID int, field string, value bool) (*models.User, error) {
	if field != FlagStaff && field != FlagActive {
		return nil, custom_error.NewValidationError("field", "only is_staff and is_active can be changed")
	}

	users, err := p.loader.AdminUsers(ctx, cred)
	if err != nil {
		return nil, err
	}
	target, ok := findUser(users, userID)
	if !ok {
		return nil, custom_error.NewValidationError("id", "unknown user")
	}
	if !CanToggle(target, username) {
		return nil, custom_error.ErrToggleLocked
	}

	var updated models.User
	path := fmt.Sprintf("%s%d/", usersPath, userID)
	if err := p.api.Do(ctx, cred, http.MethodPatch, path, map[string]bool{field: value}, &updated); err != nil {
		return nil, p.failure("update user", err)
	}

	p.audit.Log("update", username, map[string]interface{}{field: value}, &updated)
	return &updated, nil
}

// CanToggle reports whether the viewer may change the flags of user.
// Superusers and the viewer's own account are locked.
func CanToggle(user models.User, viewer string) bool {
	return !user.IsSuperuser && user.Username != viewer
}

func findUser(users []models.User, userID int) (models.User, bool) {
	for _, user := range users {
		if user.ID == userID {
			return user, true
		}
	}
	return models.User{}, false
}

func (p *Panel) invalidate(ctx context.Context, cred gateway.Credential, kind reference.Kind) []reference.Kind {
	kinds := []reference.Kind{kind}
	if p.refresher != nil {
		p.refresher.Refresh(ctx, cred, kinds...)
	}
	return kinds
}

func (p *Panel) failure(action string, err error) error {
	p.logger.Warn("Admin command failed", zap.String("action", action), zap.Error(err))
	return fmt.Errorf("%s: %w", action, err)
}
