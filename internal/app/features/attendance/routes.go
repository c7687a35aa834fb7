// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/rollcallhq/rollcall/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/dates", h.ServeDates)
		pr.Get("/sheet", h.ServeSheet)
		pr.Post("/reconcile", h.HandleReconcile)
		pr.Get("/export", h.ServeExport)
	})

	return r
}
