package views

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"novelhub/internal/catalog"
	"novelhub/internal/render"
)

// Pages serves the three HTML views. Each view owns its source and loads
// the collection on every request.
type Pages struct {
	List   catalog.Source // plain list, data/data.json
	Linked catalog.Source // list with links to the detail view, data/novels_data.json
	Detail catalog.Source // detail view, data/data.json
}

func NewPages(list, linked, detail catalog.Source) *Pages {
	return &Pages{List: list, Linked: linked, Detail: detail}
}

func (p *Pages) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", p.list)
	r.GET("/"+render.ListShell, p.list)
	r.GET("/"+render.LinkedShell, p.linked)
	r.GET("/"+render.DetailShell, p.detail)
}

func (p *Pages) list(c *gin.Context) {
	p.renderList(c, p.List, render.ListShell, render.RowOptions{})
}

func (p *Pages) linked(c *gin.Context) {
	p.renderList(c, p.Linked, render.LinkedShell, render.RowOptions{LinkTitles: true})
}

func (p *Pages) renderList(c *gin.Context, src catalog.Source, shell string, opts render.RowOptions) {
	novels, err := src.Load(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	rows, err := render.Rows(novels, opts)
	if err != nil {
		fail(c, err)
		return
	}

	page, err := render.LoadShell(shell)
	if err != nil {
		fail(c, err)
		return
	}
	if err := page.SetInnerHTML(render.ListContainer, rows); err != nil {
		fail(c, err)
		return
	}
	writePage(c, page)
}

func (p *Pages) detail(c *gin.Context) {
	// a missing or non-numeric id still loads the collection; it just
	// matches nothing
	id, ok := catalog.ParseID(c.Query("id"))

	novels, err := p.Detail.Load(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	page, err := render.LoadShell(render.DetailShell)
	if err != nil {
		fail(c, err)
		return
	}

	n, found := catalog.Find(novels, id)
	if ok && found {
		err = render.Detail(n).Apply(page)
	} else {
		err = render.ApplyNotFound(page)
	}
	if err != nil {
		fail(c, err)
		return
	}
	writePage(c, page)
}

func writePage(c *gin.Context, page *render.Page) {
	out, err := page.HTML()
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

// fail hands err to gin's error list and answers 500 without a body; the
// access log reports it.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}
