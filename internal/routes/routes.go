package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/stockroom/stockroom/internal/handlers"
	"github.com/stockroom/stockroom/internal/middleware"
)

// RegisterRoutes registers all application routes. Session checks happen
// inside the handlers, not in middleware, so every route is mounted plain.
func RegisterRoutes(
	router chi.Router,
	userHandler *handlers.UserHandler,
	productHandler *handlers.ProductHandler,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()
	credentialLimit := middleware.RateLimitByIP(rateLimitConfig)

	router.Route("/api/users", func(r chi.Router) {
		r.With(credentialLimit).Post("/register", userHandler.Register)
		r.With(credentialLimit).Post("/login", userHandler.Login)
		r.With(credentialLimit).Post("/forgotpassword", userHandler.ForgotPassword)

		r.Patch("/confirm/{id}", userHandler.Confirm)
		r.Patch("/updateuser", userHandler.UpdateUser)
		r.Patch("/updateuserphoto", userHandler.UpdateUserPhoto)
		r.Patch("/changepassword", userHandler.ChangePassword)
		r.Patch("/resetpassword/{resetToken}", userHandler.ResetPassword)
	})

	router.Route("/api/products", func(r chi.Router) {
		r.Post("/", productHandler.CreateProduct)
		r.Get("/", productHandler.GetProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
		r.Patch("/{id}", productHandler.UpdateProduct)
	})
}
