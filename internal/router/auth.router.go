package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"agricure-auth-service/internal/handler"
	"agricure-auth-service/internal/middleware"
)

func SetupRoutes(
	r chi.Router,
	signupHandler *handler.SignupHandler,
	authHandler *handler.AuthHandler,
	recHandler *handler.RecommendationHandler,
	auth *middleware.Auth,
) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(api chi.Router) {
		// ---------------- Public ----------------
		api.Group(func(pub chi.Router) {
			pub.Get("/auth/health", authHandler.Health)

			pub.Post("/auth/signup/start", signupHandler.HandleStart)
			pub.Post("/auth/signup/otp/send", signupHandler.HandleSendOTP)
			pub.Post("/auth/signup/otp/resend", signupHandler.HandleResendOTP)
			pub.Post("/auth/signup/otp/verify", signupHandler.HandleVerifyOTP)
			pub.Post("/auth/signup/change-method", signupHandler.HandleChangeMethod)
			pub.Post("/auth/signup/abandon", signupHandler.HandleAbandon)

			pub.Post("/auth/login", authHandler.HandleLogin)
			pub.Post("/auth/login/otp/request", authHandler.HandleRequestLoginOTP)
			pub.Post("/auth/login/otp/verify", authHandler.HandleVerifyLoginOTP)
		})

		// ---------------- Authenticated ----------------
		api.Group(func(g chi.Router) {
			g.Use(auth.Require)
			g.Get("/auth/me", authHandler.HandleMe)
			g.Post("/auth/logout", authHandler.HandleLogout)
			g.Get("/recommendations/{productID}", recHandler.HandleListByProduct)
		})
	})

	return r
}
