package web

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/zaloga/internal/api"
	webembed "github.com/erazemk/zaloga/web"
)

// NewRouter creates the web page router. authEnabled tells the page to ask
// for a bearer token before writes.
func NewRouter(db *sql.DB, authEnabled bool) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:          db,
		Templates:   templates,
		AuthEnabled: authEnabled,
	}

	static, err := webembed.StaticFS()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /{$}", s.Index)

	mux.HandleFunc("/", api.NotFound)

	return mux, nil
}
