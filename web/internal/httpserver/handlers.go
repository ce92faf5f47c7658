package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/authsvc"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/otclient"
	"github.com/logitrack/clients/pkg/session"
	"github.com/logitrack/clients/web/internal/cookiestore"
)

// Handlers wires one request at a time: per-request cookie store,
// shared transport, fresh session controller.
type Handlers struct {
	api *apiclient.Client
}

func NewHandlers(api *apiclient.Client) *Handlers {
	return &Handlers{api: api}
}

// recordingNavigator captures the transition's redirect target so the
// handler can set a flash message before committing the response.
type recordingNavigator struct {
	target string
}

func (n *recordingNavigator) ToDashboard() { n.target = "/dashboard" }
func (n *recordingNavigator) ToLogin()     { n.target = "/login" }

type requestScope struct {
	store *cookiestore.Store
	svc   *authsvc.Service
	ctrl  *session.Controller
	ots   *otclient.Client
	nav   *recordingNavigator
}

func (h *Handlers) scope(c echo.Context) *requestScope {
	st := cookiestore.New(c)
	api := h.api.WithStore(st)
	svc := authsvc.New(api, st)
	nav := &recordingNavigator{}
	return &requestScope{
		store: st,
		svc:   svc,
		ctrl:  session.NewController(svc, st, nav),
		ots:   otclient.New(api),
		nav:   nav,
	}
}

func (h *Handlers) Root(c echo.Context) error {
	// guard already bounced signed-in users to the dashboard
	return c.Redirect(http.StatusFound, "/login")
}

func (h *Handlers) LoginPage(c echo.Context) error {
	p := newPage("Sign in")
	p.Flash = takeFlash(c)
	return c.Render(http.StatusOK, "login", p)
}

func (h *Handlers) Login(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	scope.ctrl.Initialize(ctx)

	creds := models.LoginCredentials{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	res := scope.ctrl.Login(ctx, creds)
	if !res.Success {
		p := newPage("Sign in")
		p.Form["email"] = creds.Email
		p.setFailure(res.Errors, res.Message)
		return c.Render(http.StatusOK, "login", p)
	}
	return c.Redirect(http.StatusSeeOther, scope.nav.target)
}

func (h *Handlers) RegisterPage(c echo.Context) error {
	p := newPage("Create account")
	return c.Render(http.StatusOK, "register", p)
}

func (h *Handlers) Register(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	scope.ctrl.Initialize(ctx)

	data := models.RegisterData{
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		PasswordConfirm: c.FormValue("password_confirm"),
		FirstName:       c.FormValue("first_name"),
		LastName:        c.FormValue("last_name"),
		CPF:             c.FormValue("cpf"),
		Phone:           c.FormValue("phone"),
		Role:            c.FormValue("role"),
		CNHNumero:       c.FormValue("cnh_numero"),
		CNHCategoria:    c.FormValue("cnh_categoria"),
		CNHValidade:     c.FormValue("cnh_validade"),
	}
	res := scope.ctrl.Register(ctx, data)
	if !res.Success {
		p := newPage("Create account")
		for _, f := range []string{"email", "first_name", "last_name", "cpf", "phone", "role", "cnh_numero", "cnh_categoria", "cnh_validade"} {
			p.Form[f] = c.FormValue(f)
		}
		p.setFailure(res.Errors, res.Message)
		return c.Render(http.StatusOK, "register", p)
	}

	setFlash(c, "Account created. Welcome to LogiTrack!")
	return c.Redirect(http.StatusSeeOther, scope.nav.target)
}

func (h *Handlers) Logout(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	scope.ctrl.Initialize(ctx)
	scope.ctrl.Logout(ctx)

	target := scope.nav.target
	if target == "" {
		target = "/login"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (h *Handlers) ResetPasswordPage(c echo.Context) error {
	p := newPage("Reset password")
	p.Stage = "email"
	return c.Render(http.StatusOK, "reset_password", p)
}

// ResetPassword drives both stages of the flow. The stage travels in
// a hidden form field: the sub-state machine is never persisted, so a
// reload starts over, matching the server treating the emailed code
// as the only source of truth.
func (h *Handlers) ResetPassword(c echo.Context) error {
	scope := h.scope(c)
	ctx := c.Request().Context()
	flow := session.NewResetFlow(scope.svc)

	p := newPage("Reset password")

	if c.FormValue("stage") == "code" {
		res := flow.SubmitCode(ctx,
			c.FormValue("code"),
			c.FormValue("new_password"),
			c.FormValue("confirm_password"),
		)
		if !res.Success {
			p.Stage = "code"
			p.Email = c.FormValue("email")
			p.setFailure(res.Errors, res.Message)
			return c.Render(http.StatusOK, "reset_password", p)
		}
		setFlash(c, "Password changed. Sign in with your new password.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	email := c.FormValue("email")
	res := flow.SubmitEmail(ctx, email)
	if !res.Success {
		p.Stage = "email"
		p.Form["email"] = email
		p.setFailure(res.Errors, res.Message)
		return c.Render(http.StatusOK, "reset_password", p)
	}

	p.Stage = "code"
	p.Email = flow.Email()
	p.Flash = "If the email exists, a 6-digit code is on the way. It expires in 30 minutes."
	return c.Render(http.StatusOK, "reset_password", p)
}
