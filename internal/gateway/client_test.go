package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCredential struct {
	token       string
	invalidated bool
}

func (f *fakeCredential) Token() string { return f.token }

func (f *fakeCredential) Invalidate() {
	f.invalidated = true
	f.token = ""
}

func (f *fakeCredential) Invalidated() bool { return f.invalidated }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, "Token", server.Client(), zap.NewNop())
}

func TestDoAttachesToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"nombre":"Gasa","codigo_producto":"G-01","stock_actual":40,"umbral_critico":10}]`))
	})

	var supplies []models.Supply
	err := client.Get(context.Background(), &fakeCredential{token: "abc"}, "/api/inventory/insumos/", &supplies)

	require.NoError(t, err)
	assert.Equal(t, "Token abc", gotAuth)
	require.Len(t, supplies, 1)
	assert.Equal(t, 40, supplies[0].StockTotal)
	assert.Equal(t, "G-01", supplies[0].Code())
}

func TestDoWithoutTokenSendsNoHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Get(context.Background(), &fakeCredential{}, "/api/inventory/servicios/", nil)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDoUnauthorizedInvalidatesSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
	})
	var expired Credential
	client.OnSessionExpired(func(c Credential) { expired = c })
	cred := &fakeCredential{token: "stale"}

	err := client.Get(context.Background(), cred, "/api/inventory/insumos/", nil)

	assert.ErrorIs(t, err, custom_error.ErrSessionExpired)
	assert.True(t, cred.invalidated)
	assert.Equal(t, "", cred.Token())
	assert.Same(t, cred, expired)
}

func TestDoAfterExpirySendsNothing(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	cred := &fakeCredential{token: "stale"}

	err := client.Get(context.Background(), cred, "/api/inventory/insumos/", nil)
	require.ErrorIs(t, err, custom_error.ErrSessionExpired)

	err = client.Get(context.Background(), cred, "/api/inventory/servicios/", nil)
	assert.ErrorIs(t, err, custom_error.ErrSessionExpired)
	err = client.Get(context.Background(), cred, "/api/inventory/usuarios/", nil)
	assert.ErrorIs(t, err, custom_error.ErrSessionExpired)
	assert.Equal(t, 1, calls)
}

func TestDoUnreadableSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`<html>created</html>`))
	})

	var movement models.Movement
	err := client.Post(context.Background(), &fakeCredential{token: "abc"}, "/api/inventory/entradas/", map[string]int{"cantidad": 1}, &movement)

	assert.ErrorIs(t, err, custom_error.ErrUnreadableResponse)
	var apiErr *custom_error.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestDoKeepsServerPayloadVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"non_field_errors":["Stock insuficiente"]}`))
	})

	err := client.Post(context.Background(), &fakeCredential{token: "abc"}, "/api/inventory/movimientos/", map[string]int{"servicio_destino": 1}, nil)

	var apiErr *custom_error.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.JSONEq(t, `{"non_field_errors":["Stock insuficiente"]}`, string(apiErr.Body))
}

func TestDoTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(server.URL, "Token", server.Client(), zap.NewNop())
	server.Close()

	var reachable []bool
	client.OnReachability(func(ok bool) { reachable = append(reachable, ok) })

	err := client.Get(context.Background(), &fakeCredential{token: "abc"}, "/api/inventory/insumos/", nil)

	var transportErr *custom_error.TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Equal(t, []bool{false}, reachable)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, loginPath, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"non_field_errors":["Unable to log in with provided credentials."]}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-1","username":"ana","is_staff":true}`))
	})

	auth, err := client.Login(context.Background(), models.Credentials{Username: "ana", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", auth.Token)
	assert.True(t, auth.IsStaff)

	_, err = client.Login(context.Background(), models.Credentials{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
