package admin

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"vidshelf/database"
	"vidshelf/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("admin").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format("2006-01-02")
	},
	"deref": func(s *string) string {
		if s == nil {
			return "NONE"
		}
		return *s
	},
}).ParseFS(templateFS, "templates/*.html"))

// UsersPage renders the account table for browsers. Access control is done
// by RequireRoleOrRedirect in front of it.
func UsersPage(c *gin.Context) {
	rows, err := loadAdminUsers(database.DB.WithContext(c.Request.Context()))
	if err != nil {
		apperr.Respond(c, apperr.Wrap(err, apperr.ErrDatabase, "Failed to load users"))
		return
	}

	c.Render(http.StatusOK, render.HTML{
		Template: pages,
		Name:     "users.html",
		Data: gin.H{
			"Users":       rows,
			"GeneratedAt": time.Now().UTC().Format(time.RFC1123),
		},
	})
}
