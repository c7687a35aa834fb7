// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/rollcallhq/rollcall/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/overview", h.ServeOverview)
		pr.Get("/programs/{id}", h.ServeProgramDetail)
	})

	return r
}
