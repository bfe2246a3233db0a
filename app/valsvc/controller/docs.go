package controller

import (
	"net/http"

	"github.com/go-jose/go-jose/v4/json"
	"go.uber.org/zap"
)

// HandleDataDocs renders the latest suite outcomes as a static HTML page.
func (c *Controller) HandleDataDocs(w http.ResponseWriter, r *http.Request) {
	page, err := c.App.Runner.RenderDocs(r.Context())
	if err != nil {
		c.App.Logger.Error("Data docs render failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "render failed"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}
