package otclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *store.Memory) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	st := store.NewMemory()
	require.NoError(t, st.Save(models.User{ID: 1, Email: "d@logitrack.com"}, "acc", "ref"))
	return New(apiclient.New(srv.URL, st)), st
}

func sampleOT() OT {
	return OT{
		ID:              3,
		NumeroOT:        "OT-2026-0003",
		ClienteNome:     "Acme",
		EnderecoEntrega: "Av. Paulista 1000",
		CidadeEntrega:   "São Paulo",
		Status:          StatusEmTransito,
		MotoristaAtual:  Participant{ID: 1, Email: "d@logitrack.com", FullName: "D", Role: models.RoleDriver},
		Ativa:           true,
	}
}

func TestList_AppliesFilters(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ots/", r.URL.Path)
		assert.Equal(t, StatusEmTransito, r.URL.Query().Get("status"))
		assert.Equal(t, "paulista", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		data, _ := json.Marshal(Page{Results: []OT{sampleOT()}, Count: 11})
		json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data})
	})

	res := c.List(context.Background(), ListFilter{Status: StatusEmTransito, Search: "paulista", Page: 2})
	require.True(t, res.Success)
	require.Len(t, res.Data.Results, 1)
	assert.Equal(t, 11, res.Data.Count)
	assert.Equal(t, "OT-2026-0003", res.Data.Results[0].NumeroOT)
}

func TestGet_DecodesOT(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ots/3/", r.URL.Path)
		data, _ := json.Marshal(sampleOT())
		json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data})
	})

	res := c.Get(context.Background(), 3)
	require.True(t, res.Success)
	assert.Equal(t, StatusEmTransito, res.Data.Status)
}

func TestCreate_RequiresAddressAndCity(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	res := c.Create(context.Background(), CreateRequest{ClienteNome: "Acme"})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Errors.General())
}

func TestUpdateStatus_FieldErrorsPassThrough(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/ots/3/status/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.Envelope{
			Success: false, Message: "Invalid transition",
			Errors: models.FieldErrors{"general": {"cannot go back to INICIADA"}},
		})
	})

	res := c.UpdateStatus(context.Background(), 3, StatusUpdate{Status: StatusIniciada})
	assert.False(t, res.Success)
	assert.Contains(t, res.Errors.General(), "cannot go back to INICIADA")
}

func TestAnyCall_On401_ClearsSession(t *testing.T) {
	t.Parallel()

	c, st := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := c.List(context.Background(), ListFilter{})
	assert.False(t, res.Success)
	assert.False(t, st.HasToken())
}
