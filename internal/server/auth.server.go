package server

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agricure-auth-service/internal/config"
	"agricure-auth-service/internal/handler"
	"agricure-auth-service/internal/middleware"
	"agricure-auth-service/internal/rate"
	"agricure-auth-service/internal/repository"
	"agricure-auth-service/internal/router"
	"agricure-auth-service/internal/service/identity"
	"agricure-auth-service/internal/service/otp"
	"agricure-auth-service/internal/usecase"
	"agricure-auth-service/pkg/cache"
)

// Resources are the process-wide handles the server owns and the caller
// closes on shutdown.
type Resources struct {
	HTTP  *http.Server
	Close func()
}

func New(cfg config.Config) *Resources {
	ctx := context.Background()

	db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}

	redisCache := cache.NewCache([]string{cfg.RedisAddr}, cfg.RedisPass, false)

	provider := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, nil)
	otpSvc := otp.NewService(provider)

	profileRepo := repository.NewProfileRepository(db)
	productRepo := repository.NewProductRepository(db)
	recRepo := repository.NewRecommendationRepository(db)
	stagingRepo := repository.NewStagingRepository(redisCache, cfg.StagingTTL)

	limiter := rate.NewLimiter(redisCache, cfg.OTPWindow, cfg.OTPMaxPerWindow, cfg.OTPCooldown)
	reconciler := usecase.NewReconciler(profileRepo)

	signupUC := usecase.NewSignupUsecase(productRepo, stagingRepo, otpSvc, limiter, reconciler)
	authUC := usecase.NewAuthUsecase(provider, otpSvc)

	signupHandler := handler.NewSignupHandler(signupUC)
	authHandler := handler.NewAuthHandler(authUC)
	recHandler := handler.NewRecommendationHandler(recRepo)
	auth := middleware.NewAuth(cfg.JWTSecret)

	r := chi.NewRouter()
	router.SetupRoutes(r, signupHandler, authHandler, recHandler, auth)

	return &Resources{
		HTTP: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: r,
		},
		Close: func() {
			log.Println("closing redis connection...")
			if err := redisCache.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
			log.Println("closing database connection...")
			db.Close()
		},
	}
}
