package views

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// DataFiles serves the raw collection documents under /data so pages and
// scripts can keep fetching data/<name>.json. Files are checked to be valid
// JSON before they are sent.
func DataFiles(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := filepath.Base(c.Param("name"))
		if name == "." || name == "/" || !strings.HasSuffix(name, ".json") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read " + name})
			return
		}
		if !json.Valid(b) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": name + " is not valid JSON"})
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
	}
}
