package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satriahrh/lumi/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index.html", "login.html", "dashboard.html"}

type pageRenderer struct {
	pages map[string]*template.Template
}

func newPageRenderer() *pageRenderer {
	r := &pageRenderer{pages: map[string]*template.Template{}}
	for _, name := range pageNames {
		r.pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return r
}

func (r *pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

type pillarOption struct {
	ID    string
	Label string
}

var pillarLabels = map[domain.Pillar]string{
	domain.PillarConteudo:      "Conteúdo",
	domain.PillarProdutividade: "Produtividade",
	domain.PillarEstudo:        "Estudo",
	domain.PillarNegocios:      "Negócios",
	domain.PillarVida:          "Vida",
}

type pageData struct {
	Title    string
	UserName string
	LoggedIn bool
	Pillars  []pillarOption
}

type pageHandler struct{}

func (h *pageHandler) data(c echo.Context, title string) pageData {
	d := pageData{Title: title}
	if claims, ok := sessionClaims(c); ok {
		d.LoggedIn = true
		d.UserName = claims.Name
	}
	for _, p := range domain.Pillars() {
		d.Pillars = append(d.Pillars, pillarOption{ID: string(p), Label: pillarLabels[p]})
	}
	return d
}

func (h *pageHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", h.data(c, "Lumi"))
}

func (h *pageHandler) Login(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", h.data(c, "Entrar · Lumi"))
}

func (h *pageHandler) Dashboard(c echo.Context) error {
	return c.Render(http.StatusOK, "dashboard.html", h.data(c, "Painel · Lumi"))
}
