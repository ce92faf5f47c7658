package httpserver

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/otclient"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// page is the data every template receives. Field errors render under
// the matching inputs, Banner renders as a dismissible bar at the top.
type page struct {
	Title  string
	User   *models.User
	Flash  string
	Errors models.FieldErrors
	Banner []string
	Form   map[string]string

	// reset-password
	Stage string
	Email string

	// OT pages
	OTs      *otclient.Page
	OT       *otclient.OT
	Filter   otclient.ListFilter
	Statuses []string
}

func newPage(title string) page {
	return page{
		Title:  title,
		Form:   map[string]string{},
		Errors: models.FieldErrors{},
	}
}

func (p *page) setFailure(errs models.FieldErrors, message string) {
	p.Errors = errs
	p.Banner = errs.General()
	if len(p.Banner) == 0 && message != "" {
		p.Banner = []string{message}
	}
}

const flashCookie = "logitrack_flash"

func setFlash(c echo.Context, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func takeFlash(c echo.Context) string {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
