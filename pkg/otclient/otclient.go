// Package otclient covers the order-transport (OT) operations of the
// LogiTrack API. Every call goes through the shared authenticated
// transport, so a 401 on any of them tears the session down the same
// way an auth call would.
package otclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/models"
)

// OT status values, in lifecycle order. ENTREGUE, ENTREGUE_PARCIAL
// and CANCELADA are terminal.
const (
	StatusIniciada        = "INICIADA"
	StatusEmCarregamento  = "EM_CARREGAMENTO"
	StatusEmTransito      = "EM_TRANSITO"
	StatusEntregue        = "ENTREGUE"
	StatusEntregueParcial = "ENTREGUE_PARCIAL"
	StatusCancelada       = "CANCELADA"
)

type Participant struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type OT struct {
	ID             int64  `json:"id"`
	NumeroOT       string `json:"numero_ot"`
	ClienteNome    string `json:"cliente_nome"`
	EnderecoEntrega string `json:"endereco_entrega"`
	CidadeEntrega  string `json:"cidade_entrega"`
	Observacoes    string `json:"observacoes"`
	Status         string `json:"status"`

	LatitudeOrigem  *float64 `json:"latitude_origem,omitempty"`
	LongitudeOrigem *float64 `json:"longitude_origem,omitempty"`
	EnderecoOrigem  string   `json:"endereco_origem,omitempty"`

	DataCriacao     string `json:"data_criacao"`
	DataAtualizacao string `json:"data_atualizacao"`
	DataFinalizacao string `json:"data_finalizacao,omitempty"`

	MotoristaCriador Participant `json:"motorista_criador"`
	MotoristaAtual   Participant `json:"motorista_atual"`

	Ativa bool `json:"ativa"`
}

type CreateRequest struct {
	ClienteNome     string   `json:"cliente_nome,omitempty"`
	EnderecoEntrega string   `json:"endereco_entrega"`
	CidadeEntrega   string   `json:"cidade_entrega"`
	Observacoes     string   `json:"observacoes,omitempty"`
	LatitudeOrigem  *float64 `json:"latitude_origem,omitempty"`
	LongitudeOrigem *float64 `json:"longitude_origem,omitempty"`
	EnderecoOrigem  string   `json:"endereco_origem,omitempty"`
}

type StatusUpdate struct {
	Status     string   `json:"status"`
	Observacao string   `json:"observacao,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type ListFilter struct {
	Status string
	Search string
	Page   int
}

type Page struct {
	Results  []OT   `json:"results"`
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

type Client struct {
	api *apiclient.Client
}

func New(api *apiclient.Client) *Client { return &Client{api: api} }

func (c *Client) Create(ctx context.Context, req CreateRequest) models.Result[OT] {
	if req.EnderecoEntrega == "" || req.CidadeEntrega == "" {
		return models.FailField[OT]("Delivery address and city are required",
			models.FieldGeneral, "Delivery address and city are required")
	}
	return decode[OT](c.api.Post(ctx, "/ots/", req))
}

func (c *Client) List(ctx context.Context, filter ListFilter) models.Result[Page] {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Page > 1 {
		q.Set("page", fmt.Sprint(filter.Page))
	}
	path := "/ots/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return decode[Page](c.api.Get(ctx, path))
}

func (c *Client) Get(ctx context.Context, id int64) models.Result[OT] {
	return decode[OT](c.api.Get(ctx, fmt.Sprintf("/ots/%d/", id)))
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) models.Result[OT] {
	return decode[OT](c.api.Patch(ctx, fmt.Sprintf("/ots/%d/status/", id), upd))
}

func (c *Client) Finish(ctx context.Context, id int64, upd StatusUpdate) models.Result[OT] {
	return decode[OT](c.api.Post(ctx, fmt.Sprintf("/ots/%d/finalizar/", id), upd))
}

// Transfer hands the OT to another driver; the server validates that
// the target can take it.
func (c *Client) Transfer(ctx context.Context, id int64, toUserID int64, note string) models.Result[models.None] {
	body := map[string]any{"motorista_destino": toUserID}
	if note != "" {
		body["observacao"] = note
	}
	env, err := c.api.Post(ctx, fmt.Sprintf("/ots/%d/transferir/", id), body)
	if err != nil {
		return failure[models.None](err)
	}
	if !env.Success {
		return models.Fail[models.None](env.Message, env.Errors)
	}
	return models.OK[models.None](env.Message, nil)
}

func decode[T any](env *models.Envelope, err error) models.Result[T] {
	if err != nil {
		return failure[T](err)
	}
	if !env.Success || env.Data == nil {
		return models.Fail[T](env.Message, env.Errors)
	}
	var data T
	if uerr := json.Unmarshal(env.Data, &data); uerr != nil {
		return models.FailField[T]("Unexpected response", models.FieldGeneral, "Unexpected response")
	}
	return models.OK(env.Message, &data)
}

func failure[T any](err error) models.Result[T] {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Request failed (%d)", apiErr.Status)
		}
		if apiErr.Status == 400 && len(apiErr.Errors) > 0 {
			return models.Fail[T](msg, apiErr.Errors)
		}
		return models.FailField[T](msg, models.FieldGeneral, msg)
	}
	return models.FailField[T]("Connection error. Please try again.",
		models.FieldNetwork, "Connection error. Please try again.")
}
