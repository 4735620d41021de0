package admin

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/auditlog"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) Do(ctx context.Context, cred gateway.Credential, method, path string, body, result interface{}) error {
	args := m.Called(method, path, body)
	if fill, ok := args.Get(1).(func(interface{})); ok && fill != nil {
		fill(result)
	}
	return args.Error(0)
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context, cred gateway.Credential, kinds ...reference.Kind) {
	m.Called(kinds)
}

type stubCredential struct{}

func (stubCredential) Token() string     { return "tok" }
func (stubCredential) Invalidate()       {}
func (stubCredential) Invalidated() bool { return false }

func newPanel(api *MockRequester, refresher reference.Refresher) *Panel {
	return NewPanel(api, reference.NewLoader(api), refresher, auditlog.NewAuditLog(zap.NewNop()), zap.NewNop())
}

var adminUsers = []models.User{
	{ID: 1, Username: "admin", IsStaff: true, IsActive: true, IsSuperuser: true},
	{ID: 2, Username: "jefa", IsStaff: true, IsActive: true},
	{ID: 3, Username: "tens", IsActive: true},
}

func listUsers(api *MockRequester) {
	api.On("Do", http.MethodGet, "/api/inventory/admin/usuarios/", nil).Return(nil, func(result interface{}) {
		*(result.(*[]models.User)) = adminUsers
	})
}

func TestCanToggle(t *testing.T) {
	tests := []struct {
		name   string
		user   models.User
		viewer string
		want   bool
	}{
		{"superuser locked", adminUsers[0], "jefa", false},
		{"own account locked", adminUsers[1], "jefa", false},
		{"other user editable", adminUsers[2], "jefa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanToggle(tt.user, tt.viewer))
		})
	}
}

func TestSetUserFlag(t *testing.T) {
	api := new(MockRequester)
	listUsers(api)
	api.On("Do", http.MethodPatch, "/api/inventory/admin/usuarios/3/", map[string]bool{"is_staff": true}).Return(nil, func(result interface{}) {
		*(result.(*models.User)) = models.User{ID: 3, Username: "tens", IsStaff: true, IsActive: true}
	})

	user, err := newPanel(api, nil).SetUserFlag(context.Background(), stubCredential{}, "jefa", 3, FlagStaff, true)

	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	api.AssertExpectations(t)
}

func TestSetUserFlagRefusesLockedTargets(t *testing.T) {
	api := new(MockRequester)
	listUsers(api)
	panel := newPanel(api, nil)

	_, err := panel.SetUserFlag(context.Background(), stubCredential{}, "jefa", 1, FlagActive, false)
	assert.ErrorIs(t, err, custom_error.ErrToggleLocked)

	_, err = panel.SetUserFlag(context.Background(), stubCredential{}, "jefa", 2, FlagActive, false)
	assert.ErrorIs(t, err, custom_error.ErrToggleLocked)

	api.AssertNotCalled(t, "Do", http.MethodPatch, mock.Anything, mock.Anything)
}

func TestSetUserFlagRejectsUnknownField(t *testing.T) {
	api := new(MockRequester)

	_, err := newPanel(api, nil).SetUserFlag(context.Background(), stubCredential{}, "jefa", 3, "is_superuser", true)

	var validationErr *custom_error.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "field", validationErr.Field)
	api.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateThreshold(t *testing.T) {
	api := new(MockRequester)
	api.On("Do", http.MethodPatch, "/api/inventory/admin/insumos/5/", models.ThresholdPatch{Threshold: 0}).Return(nil, func(result interface{}) {
		*(result.(*models.Supply)) = models.Supply{ID: 5, Name: "Gasa", Threshold: 0}
	})
	panel := newPanel(api, nil)

	supply, err := panel.UpdateThreshold(context.Background(), stubCredential{}, "jefa", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, supply.ID)

	_, err = panel.UpdateThreshold(context.Background(), stubCredential{}, "jefa", 5, -1)
	var validationErr *custom_error.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	api.AssertNumberOfCalls(t, "Do", 1)
}

func TestCreateSupplyInvalidatesSupplies(t *testing.T) {
	api := new(MockRequester)
	refresher := new(MockRefresher)
	api.On("Do", http.MethodPost, "/api/inventory/admin/insumos/", mock.Anything).Return(nil, func(result interface{}) {
		*(result.(*models.Supply)) = models.Supply{ID: 9, Name: "Gasa"}
	})
	refresher.On("Refresh", []reference.Kind{reference.Supplies}).Return()

	outcome, err := newPanel(api, refresher).CreateSupply(context.Background(), stubCredential{}, "jefa", models.CreateSupplyRequest{Name: " Gasa ", Threshold: 10})

	require.NoError(t, err)
	assert.Equal(t, 9, outcome.Entity.ID)
	assert.Equal(t, []reference.Kind{reference.Supplies}, outcome.Invalidates)
	refresher.AssertExpectations(t)
}

func TestCreateSupplyReportsPreferredMember(t *testing.T) {
	api := new(MockRequester)
	rejection := &custom_error.APIError{Status: http.StatusBadRequest, Body: []byte(`{"nombre":"x","codigo_producto":"ya existe"}`)}
	api.On("Do", http.MethodPost, "/api/inventory/admin/insumos/", mock.Anything).Return(rejection, nil)

	_, err := newPanel(api, nil).CreateSupply(context.Background(), stubCredential{}, "jefa", models.CreateSupplyRequest{Name: "Gasa"})

	require.Error(t, err)
	assert.Equal(t, "create supply: ya existe", err.Error())
}

func TestCreateValidation(t *testing.T) {
	api := new(MockRequester)
	panel := newPanel(api, nil)
	ctx := context.Background()

	_, err := panel.CreateSupply(ctx, stubCredential{}, "jefa", models.CreateSupplyRequest{Name: "  "})
	assert.Error(t, err)
	_, err = panel.CreateSupply(ctx, stubCredential{}, "jefa", models.CreateSupplyRequest{Name: "Gasa", Threshold: -1})
	assert.Error(t, err)
	_, err = panel.CreateService(ctx, stubCredential{}, "jefa", models.CreateServiceRequest{})
	assert.Error(t, err)
	_, err = panel.CreateUser(ctx, stubCredential{}, "jefa", models.CreateUserRequest{Username: "nuevo"})
	assert.Error(t, err)

	api.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateUser(t *testing.T) {
	api := new(MockRequester)
	req := models.CreateUserRequest{Username: "nuevo", Password: "secreto", IsStaff: true}
	api.On("Do", http.MethodPost, "/api/inventory/admin/usuarios/", req).Return(nil, func(result interface{}) {
		*(result.(*models.User)) = models.User{ID: 4, Username: "nuevo", IsStaff: true, IsActive: true}
	})

	outcome, err := newPanel(api, nil).CreateUser(context.Background(), stubCredential{}, "jefa", req)

	require.NoError(t, err)
	assert.Equal(t, "nuevo", outcome.Entity.Username)
	assert.Equal(t, []reference.Kind{reference.Users}, outcome.Invalidates)
}

func TestTablesMarksLockedUsers(t *testing.T) {
	api := new(MockRequester)
	api.On("Do", http.MethodGet, "/api/inventory/admin/insumos/", nil).Return(errors.New("boom"), nil)
	api.On("Do", http.MethodGet, "/api/inventory/admin/servicios/", nil).Return(nil, nil)
	listUsers(api)

	tables, err := newPanel(api, nil).Tables(context.Background(), stubCredential{}, "jefa")

	require.NoError(t, err)
	assert.Equal(t, "load admin supplies: boom", tables.Supplies.Error)
	assert.Empty(t, tables.Services.Error)
	assert.Empty(t, tables.Services.Items)
	require.Len(t, tables.Users.Items, 3)
	assert.True(t, tables.Users.Items[0].Locked)
	assert.True(t, tables.Users.Items[1].Locked)
	assert.False(t, tables.Users.Items[2].Locked)
}

func TestTablesStopAtExpiredSession(t *testing.T) {
	api := new(MockRequester)
	api.On("Do", http.MethodGet, "/api/inventory/admin/insumos/", nil).Return(custom_error.ErrSessionExpired, nil)

	_, err := newPanel(api, nil).Tables(context.Background(), stubCredential{}, "jefa")

	assert.ErrorIs(t, err, custom_error.ErrSessionExpired)
	api.AssertNumberOfCalls(t, "Do", 1)
}
