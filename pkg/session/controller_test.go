package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/authsvc"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

var testUser = models.User{
	ID:        5,
	Email:     "carlos@logitrack.com",
	FirstName: "Carlos",
	LastName:  "Mota",
	Role:      models.RoleLogistics,
	CPF:       "55544433322",
	IsActive:  true,
}

type spyNavigator struct {
	dashboard int
	login     int
}

func (n *spyNavigator) ToDashboard() { n.dashboard++ }
func (n *spyNavigator) ToLogin()     { n.login++ }

func newTestController(t *testing.T, handler http.HandlerFunc) (*Controller, *store.Memory, *spyNavigator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	st := store.NewMemory()
	nav := &spyNavigator{}
	svc := authsvc.New(apiclient.New(srv.URL, st), st)
	return NewController(svc, st, nav), st, nav
}

func authOK(w http.ResponseWriter) {
	data, _ := json.Marshal(models.AuthPayload{
		User:   testUser,
		Tokens: models.TokenPair{Access: "acc", Refresh: "ref"},
	})
	json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data})
}

func TestInitialize_NoToken_Anonymous(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	assert.False(t, c.Ready())
	assert.Equal(t, StateInitializing, c.State())

	c.Initialize(context.Background())
	assert.True(t, c.Ready())
	assert.Equal(t, StateAnonymous, c.State())
	assert.False(t, c.Authenticated())
	assert.Equal(t, int32(0), calls.Load())
}

func TestInitialize_RestoresFromStore(t *testing.T) {
	t.Parallel()

	c, st, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, st.Save(testUser, "acc", "ref"))

	c.Initialize(context.Background())
	assert.Equal(t, StateAuthenticated, c.State())
	require.NotNil(t, c.User())
	assert.Equal(t, testUser.Email, c.User().Email)
}

func TestInitialize_RestoreFailure_FailsClosed(t *testing.T) {
	t.Parallel()

	c, st, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	// token present but no cached profile forces the live fetch
	require.NoError(t, st.Save(models.User{}, "stale", "stale-ref"))

	c.Initialize(context.Background())
	assert.True(t, c.Ready())
	assert.Equal(t, StateAnonymous, c.State())
	assert.Nil(t, c.User())
	assert.False(t, st.HasToken())
}

func TestInitialize_RunsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, st, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, st.Save(models.User{}, "tok", "ref"))

	c.Initialize(context.Background())
	first := calls.Load()
	c.Initialize(context.Background())
	assert.Equal(t, first, calls.Load())
}

func TestLogin_Success_NavigatesToDashboard(t *testing.T) {
	t.Parallel()

	c, _, nav := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		authOK(w)
	})
	c.Initialize(context.Background())

	res := c.Login(context.Background(), models.LoginCredentials{Email: testUser.Email, Password: "pw"})
	require.True(t, res.Success)
	assert.Equal(t, StateAuthenticated, c.State())
	assert.Equal(t, 1, nav.dashboard)
	assert.Equal(t, 0, nav.login)
}

func TestLogin_Failure_StateUnchanged(t *testing.T) {
	t.Parallel()

	c, _, nav := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c.Initialize(context.Background())

	res := c.Login(context.Background(), models.LoginCredentials{Email: testUser.Email, Password: "bad"})
	assert.False(t, res.Success)
	assert.Equal(t, StateAnonymous, c.State())
	assert.Nil(t, c.User())
	assert.Equal(t, 0, nav.dashboard)
}

func TestRegister_Success_NavigatesToDashboard(t *testing.T) {
	t.Parallel()

	c, st, nav := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		authOK(w)
	})
	c.Initialize(context.Background())

	res := c.Register(context.Background(), models.RegisterData{
		Email: testUser.Email, Password: "pw", PasswordConfirm: "pw",
		FirstName: "Carlos", LastName: "Mota", CPF: testUser.CPF, Role: testUser.Role,
	})
	require.True(t, res.Success)
	assert.Equal(t, StateAuthenticated, c.State())
	assert.True(t, st.HasToken())
	assert.Equal(t, 1, nav.dashboard)
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	var logoutCalls atomic.Int32
	c, st, nav := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login/":
			authOK(w)
		case "/auth/logout/":
			logoutCalls.Add(1)
			json.NewEncoder(w).Encode(models.Envelope{Success: true})
		}
	})
	c.Initialize(context.Background())
	c.Login(context.Background(), models.LoginCredentials{Email: testUser.Email, Password: "pw"})

	c.Logout(context.Background())
	assert.Equal(t, StateAnonymous, c.State())
	assert.False(t, st.HasToken())
	assert.Equal(t, int32(1), logoutCalls.Load())
	assert.Equal(t, 1, nav.login)

	// second logout: same end state, no network call, no redirect
	c.Logout(context.Background())
	assert.Equal(t, StateAnonymous, c.State())
	assert.Equal(t, int32(1), logoutCalls.Load())
	assert.Equal(t, 1, nav.login)
}

func TestMidSession401_TearsDownSession(t *testing.T) {
	t.Parallel()

	authorized := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login/":
			authOK(w)
		case "/ots/":
			if !authorized {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(models.Envelope{Success: true})
		}
	}))
	t.Cleanup(srv.Close)

	st := store.NewMemory()
	nav := &spyNavigator{}
	api := apiclient.New(srv.URL, st)
	c := NewController(authsvc.New(api, st), st, nav)

	c.Initialize(context.Background())
	c.Login(context.Background(), models.LoginCredentials{Email: testUser.Email, Password: "pw"})
	require.True(t, st.HasToken())

	// server-side expiry: the next authenticated call comes back 401
	// and the transport empties the store on its own
	authorized = false
	_, err := api.Get(context.Background(), "/ots/")
	require.Error(t, err)
	assert.False(t, st.HasToken())

	// higher layers react to the error by forcing the teardown
	c.Invalidate(context.Background())
	assert.Equal(t, StateAnonymous, c.State())
	assert.Nil(t, c.User())
	assert.Equal(t, 1, nav.login)
}
