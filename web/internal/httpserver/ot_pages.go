package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/logitrack/clients/pkg/otclient"
)

var otStatuses = []string{
	otclient.StatusIniciada,
	otclient.StatusEmCarregamento,
	otclient.StatusEmTransito,
	otclient.StatusEntregue,
	otclient.StatusEntregueParcial,
	otclient.StatusCancelada,
}

// Dashboard restores the session and lists the user's OTs. A 401
// anywhere along the way has already emptied the cookie store, so the
// controller lands on Anonymous and the user is sent back to login.
func (h *Handlers) Dashboard(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	scope.ctrl.Initialize(ctx)
	if !scope.ctrl.Authenticated() {
		return c.Redirect(http.StatusFound, "/login")
	}

	filter := otclient.ListFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}
	if pageNum, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = pageNum
	}

	p := newPage("Dashboard")
	p.User = scope.ctrl.User()
	p.Flash = takeFlash(c)
	p.Filter = filter
	p.Statuses = otStatuses

	res := scope.ots.List(ctx, filter)
	if !res.Success {
		if !scope.store.HasToken() {
			return c.Redirect(http.StatusFound, "/login")
		}
		p.setFailure(res.Errors, res.Message)
	} else {
		p.OTs = res.Data
	}
	return c.Render(http.StatusOK, "dashboard", p)
}

func (h *Handlers) NewOTPage(c echo.Context) error {
	scope := h.scope(c)
	scope.ctrl.Initialize(c.Request().Context())
	if !scope.ctrl.Authenticated() {
		return c.Redirect(http.StatusFound, "/login")
	}

	p := newPage("New OT")
	p.User = scope.ctrl.User()
	return c.Render(http.StatusOK, "ot_new", p)
}

func (h *Handlers) CreateOT(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	scope.ctrl.Initialize(ctx)
	if !scope.ctrl.Authenticated() {
		return c.Redirect(http.StatusFound, "/login")
	}

	req := otclient.CreateRequest{
		ClienteNome:     c.FormValue("cliente_nome"),
		EnderecoEntrega: c.FormValue("endereco_entrega"),
		CidadeEntrega:   c.FormValue("cidade_entrega"),
		Observacoes:     c.FormValue("observacoes"),
	}
	res := scope.ots.Create(ctx, req)
	if !res.Success {
		if !scope.store.HasToken() {
			return c.Redirect(http.StatusFound, "/login")
		}
		p := newPage("New OT")
		p.User = scope.ctrl.User()
		for _, f := range []string{"cliente_nome", "endereco_entrega", "cidade_entrega", "observacoes"} {
			p.Form[f] = c.FormValue(f)
		}
		p.setFailure(res.Errors, res.Message)
		return c.Render(http.StatusOK, "ot_new", p)
	}

	setFlash(c, "OT "+res.Data.NumeroOT+" created")
	return c.Redirect(http.StatusSeeOther, "/ots/"+strconv.FormatInt(res.Data.ID, 10))
}

func (h *Handlers) OTDetail(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	scope.ctrl.Initialize(ctx)
	if !scope.ctrl.Authenticated() {
		return c.Redirect(http.StatusFound, "/login")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	p := newPage("OT detail")
	p.User = scope.ctrl.User()
	p.Flash = takeFlash(c)
	p.Statuses = otStatuses

	res := scope.ots.Get(ctx, id)
	if !res.Success {
		if !scope.store.HasToken() {
			return c.Redirect(http.StatusFound, "/login")
		}
		p.setFailure(res.Errors, res.Message)
		return c.Render(http.StatusOK, "ot_detail", p)
	}
	p.OT = res.Data
	return c.Render(http.StatusOK, "ot_detail", p)
}

func (h *Handlers) UpdateOTStatus(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	scope.ctrl.Initialize(ctx)
	if !scope.ctrl.Authenticated() {
		return c.Redirect(http.StatusFound, "/login")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	res := scope.ots.UpdateStatus(ctx, id, otclient.StatusUpdate{
		Status:     c.FormValue("status"),
		Observacao: c.FormValue("observacao"),
	})
	if !res.Success {
		if !scope.store.HasToken() {
			return c.Redirect(http.StatusFound, "/login")
		}
		setFlash(c, firstGeneral(res.Errors.General(), res.Message))
	} else {
		setFlash(c, "Status updated to "+res.Data.Status)
	}
	return c.Redirect(http.StatusSeeOther, "/ots/"+c.Param("id"))
}

func firstGeneral(general []string, fallback string) string {
	if len(general) > 0 {
		return general[0]
	}
	if fallback != "" {
		return fallback
	}
	return "Operation failed"
}
