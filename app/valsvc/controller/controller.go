package controller

import (
	"net/http"

	"github.com/congress-network/congressx/app/valsvc/types"
	"github.com/congress-network/congressx/pkg/utils"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controller struct {
	App        *types.App
	AdminToken string
	JWTSecret  []byte
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App:        app,
		AdminToken: utils.Env("ADMIN_TOKEN", "devtoken"),
		JWTSecret:  []byte(utils.Env("SESSION_SECRET", "change-me-please")),
	}
}

// WithCORS is a middleware that adds CORS headers to the response.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodPost+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()

	r.Handle("/healthz", http.HandlerFunc(c.HandleHealth)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Read-only surface
	r.Handle("/status", http.HandlerFunc(c.HandleStatus)).Methods(http.MethodGet)
	r.Handle("/validation-results", http.HandlerFunc(c.HandleValidationResults)).Methods(http.MethodGet)
	r.Handle("/validation-results/{table}", http.HandlerFunc(c.HandleLatestValidation)).Methods(http.MethodGet)
	r.Handle("/promotions", http.HandlerFunc(c.HandlePromotions)).Methods(http.MethodGet)
	r.Handle("/discrepancies", http.HandlerFunc(c.HandleDiscrepancies)).Methods(http.MethodGet)
	r.Handle("/data-docs", http.HandlerFunc(c.HandleDataDocs)).Methods(http.MethodGet)

	// Mutating surface, token-gated
	r.Handle("/validate", c.RequireAuth(http.HandlerFunc(c.HandleValidate))).Methods(http.MethodPost)
	r.Handle("/promote", c.RequireAuth(http.HandlerFunc(c.HandlePromote))).Methods(http.MethodPost)

	return r, nil
}
