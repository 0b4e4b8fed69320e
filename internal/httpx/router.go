package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface: the order endpoint, the payment webhook,
// the health check, and the static storefront files.
func NewRouter(handler *Handler, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/orders", handler.CreateOrder)
	r.Post("/webhook/stripe", handler.StripeWebhook)
	r.Get("/api/health", handler.Health)

	// Checkout redirect targets and the static landing page.
	r.Get("/success", servePage(staticDir, "success.html"))
	r.Get("/cancel", servePage(staticDir, "cancel.html"))
	r.Handle("/*", http.FileServer(http.Dir(staticDir)))

	return r
}

func servePage(dir, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, dir+"/"+name)
	}
}
