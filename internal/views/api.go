package views

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"novelhub/internal/catalog"
	"novelhub/internal/novel"
)

// API is the JSON view of a collection.
type API struct {
	Source catalog.Source
}

func NewAPI(src catalog.Source) *API {
	return &API{Source: src}
}

func (a *API) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", a.list)        // GET /api/novels
	rg.GET("/:id", a.getByID) // GET /api/novels/:id
}

// repo is set when the collection is the SQLite catalog, which answers
// queries and lookups itself instead of loading every record.
func (a *API) repo() *novel.Repo {
	if db, ok := a.Source.(catalog.DBSource); ok {
		return db.Repo
	}
	return nil
}

func (a *API) list(c *gin.Context) {
	ctx := c.Request.Context()
	q := novel.ListQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
	}

	if repo := a.repo(); repo != nil {
		items, err := repo.List(ctx, q)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
			return
		}
		total, err := repo.Count(ctx, q)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "items": items})
		return
	}

	novels, err := a.Source.Load(ctx)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}

	items := novel.Filter(novels, q)
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (a *API) getByID(c *gin.Context) {
	id, ok := catalog.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if repo := a.repo(); repo != nil {
		n, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
			return
		}
		if n == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, n)
		return
	}

	novels, err := a.Source.Load(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}

	n, found := catalog.Find(novels, id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, n)
}
