package authsvc

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
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

var testUser = models.User{
	ID:        12,
	Email:     "ana@logitrack.com",
	FirstName: "Ana",
	LastName:  "Souza",
	Role:      models.RoleDriver,
	CPF:       "11122233344",
	IsActive:  true,
}

func authOK(w http.ResponseWriter) {
	payload := models.AuthPayload{
		User:   testUser,
		Tokens: models.TokenPair{Access: "acc-token", Refresh: "ref-token"},
	}
	data, _ := json.Marshal(payload)
	json.NewEncoder(w).Encode(models.Envelope{Success: true, Message: "Welcome", Data: data})
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *store.Memory) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	st := store.NewMemory()
	return New(apiclient.New(srv.URL, st), st), st
}

func TestLogin_Success_PersistsCompleteTriple(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login/", r.URL.Path)
		authOK(w)
	})

	res := svc.Login(context.Background(), models.LoginCredentials{Email: "ana@logitrack.com", Password: "pw"})
	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	assert.Equal(t, testUser.Email, res.Data.User.Email)

	// access, refresh and user are all present, never a partial triple
	snap, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "acc-token", snap.Access)
	assert.Equal(t, "ref-token", snap.Refresh)
	assert.Equal(t, testUser, snap.User)
}

func TestLogin_BadCredentials_SameMessageOnBothFields(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.Envelope{Success: false, Message: "bad credentials"})
	})

	res := svc.Login(context.Background(), models.LoginCredentials{Email: "ana@logitrack.com", Password: "wrong"})
	require.False(t, res.Success)

	emailMsg := res.Errors.First(models.FieldEmail)
	passMsg := res.Errors.First(models.FieldPassword)
	require.NotEmpty(t, emailMsg)
	assert.Equal(t, emailMsg, passMsg)
	assert.NotEmpty(t, res.Errors[models.FieldCredentials])
	assert.False(t, st.HasToken())
}

func TestLogin_ValidationErrors_PassThrough(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.Envelope{
			Success: false,
			Message: "Invalid data",
			Errors:  models.FieldErrors{"password": {"too short"}},
		})
	})

	res := svc.Login(context.Background(), models.LoginCredentials{Email: "a@b.com", Password: "short"})
	require.False(t, res.Success)
	assert.Equal(t, "too short", res.Errors.First(models.FieldPassword))
}

func TestLogin_NetworkError_NetworkBucket(t *testing.T) {
	t.Parallel()

	st := store.NewMemory()
	// nothing listens on this address
	svc := New(apiclient.New("http://127.0.0.1:1", st), st)

	res := svc.Login(context.Background(), models.LoginCredentials{Email: "a@b.com", Password: "pw"})
	require.False(t, res.Success)
	assert.NotEmpty(t, res.Errors[models.FieldNetwork])
}

func TestRegister_EstablishesSessionLikeLogin(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register/", r.URL.Path)
		authOK(w)
	})

	res := svc.Register(context.Background(), models.RegisterData{
		Email: "ana@logitrack.com", Password: "pw", PasswordConfirm: "pw",
		FirstName: "Ana", LastName: "Souza", CPF: "11122233344", Role: models.RoleDriver,
	})
	require.True(t, res.Success)
	assert.True(t, st.HasToken())
}

func TestLogout_ClearsStoreEvenWhenServerFails(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, st.Save(testUser, "acc", "ref"))

	res := svc.Logout(context.Background())
	assert.True(t, res.Success)
	assert.False(t, st.HasToken())
}

func TestLogout_NoRefreshToken_NoNetworkCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	svc.Logout(context.Background())
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, st.HasToken())
}

func TestCurrentUser_PrefersCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	require.NoError(t, st.Save(testUser, "acc", "ref"))

	res := svc.CurrentUser(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, testUser.Email, res.Data.Email)
	assert.Equal(t, int32(0), calls.Load())
}

func TestCurrentUser_CacheMiss_FetchesAndRepopulates(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/user/", r.URL.Path)
		data, _ := json.Marshal(testUser)
		json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data})
	})
	// token present, profile missing: the cookie medium can expire the
	// user entry on its own
	require.NoError(t, st.Save(models.User{}, "acc", "ref"))

	res := svc.CurrentUser(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, testUser.Email, res.Data.Email)

	snap, ok, _ := st.Load()
	require.True(t, ok)
	assert.Equal(t, testUser, snap.User)
	assert.Equal(t, "acc", snap.Access)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/token/refresh/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref", body["refresh"])
		data, _ := json.Marshal(map[string]string{"access": "acc-2"})
		json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data})
	})
	require.NoError(t, st.Save(testUser, "acc-1", "ref"))

	res := svc.RefreshAccessToken(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, "acc-2", *res.Data)

	snap, _, _ := st.Load()
	assert.Equal(t, "acc-2", snap.Access)
	assert.Equal(t, "ref", snap.Refresh)
	assert.Equal(t, testUser, snap.User)
}

func TestRefreshAccessToken_FailureLogsOut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prime   bool
		handler http.HandlerFunc
	}{
		{
			name:  "server rejects refresh",
			prime: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name:    "no refresh token stored",
			prime:   false,
			handler: func(w http.ResponseWriter, r *http.Request) {},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, st := newTestService(t, tt.handler)
			if tt.prime {
				require.NoError(t, st.Save(testUser, "acc", "ref"))
			}

			res := svc.RefreshAccessToken(context.Background())
			assert.False(t, res.Success)
			assert.False(t, st.HasToken())
		})
	}
}

func TestConfirmPasswordReset_DoesNotTouchSession(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/password/confirm/", r.URL.Path)
		json.NewEncoder(w).Encode(models.Envelope{Success: true, Message: "Password changed"})
	})
	require.NoError(t, st.Save(testUser, "acc", "ref"))

	res := svc.ConfirmPasswordReset(context.Background(), models.PasswordResetConfirm{
		Code: "123456", NewPassword: "newpw", ConfirmPassword: "newpw",
	})
	require.True(t, res.Success)

	// whatever session existed before the flow is untouched
	snap, ok, _ := st.Load()
	require.True(t, ok)
	assert.Equal(t, "acc", snap.Access)
}
