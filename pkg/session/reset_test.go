package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/authsvc"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

func newResetFlow(t *testing.T, handler http.HandlerFunc) (*ResetFlow, *store.Memory) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	st := store.NewMemory()
	return NewResetFlow(authsvc.New(apiclient.New(srv.URL, st), st)), st
}

func TestResetFlow_AdvancesOnlyOnSuccessfulRequest(t *testing.T) {
	t.Parallel()

	accept := false
	f, _ := newResetFlow(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/password/reset/", r.URL.Path)
		if !accept {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.Envelope{
				Success: false, Message: "Invalid data",
				Errors: models.FieldErrors{"email": {"unknown email"}},
			})
			return
		}
		json.NewEncoder(w).Encode(models.Envelope{Success: true, Message: "Code sent"})
	})

	assert.Equal(t, StageCollectingEmail, f.Stage())

	res := f.SubmitEmail(context.Background(), "nobody@logitrack.com")
	assert.False(t, res.Success)
	assert.Equal(t, StageCollectingEmail, f.Stage())

	accept = true
	res = f.SubmitEmail(context.Background(), "ana@logitrack.com")
	require.True(t, res.Success)
	assert.Equal(t, StageCollectingCode, f.Stage())
	assert.Equal(t, "ana@logitrack.com", f.Email())
}

func TestResetFlow_EmptyEmailRejectedLocally(t *testing.T) {
	t.Parallel()

	f, _ := newResetFlow(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	res := f.SubmitEmail(context.Background(), "")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Errors.First(models.FieldEmail))
}

func TestResetFlow_CodeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  string
		newPW string
		confirm string
		field string
	}{
		{name: "too short", code: "12345", newPW: "pw1", confirm: "pw1", field: models.FieldCode},
		{name: "not numeric", code: "12a456", newPW: "pw1", confirm: "pw1", field: models.FieldCode},
		{name: "too long", code: "1234567", newPW: "pw1", confirm: "pw1", field: models.FieldCode},
		{name: "password mismatch", code: "123456", newPW: "pw1", confirm: "pw2", field: models.FieldConfirmPassword},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, _ := newResetFlow(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected")
			})

			res := f.SubmitCode(context.Background(), tt.code, tt.newPW, tt.confirm)
			assert.False(t, res.Success)
			assert.NotEmpty(t, res.Errors.First(tt.field))
		})
	}
}

func TestResetFlow_ConfirmEstablishesNoSession(t *testing.T) {
	t.Parallel()

	f, st := newResetFlow(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Envelope{Success: true, Message: "Password changed"})
	})

	res := f.SubmitCode(context.Background(), "123456", "newpass", "newpass")
	require.True(t, res.Success)
	assert.False(t, st.HasToken())
}

func TestResetFlow_Restart(t *testing.T) {
	t.Parallel()

	f, _ := newResetFlow(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Envelope{Success: true})
	})

	require.True(t, f.SubmitEmail(context.Background(), "ana@logitrack.com").Success)
	require.Equal(t, StageCollectingCode, f.Stage())

	f.Restart()
	assert.Equal(t, StageCollectingEmail, f.Stage())
	assert.Empty(t, f.Email())
}
