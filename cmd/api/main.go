//	@title			Pressroom API
//	@version		1.0
//	@description	Backend for Pressroom — blog, careers, and media library for the studio site.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/pressroom/service/internal/auth"
	"github.com/pressroom/service/internal/blog"
	"github.com/pressroom/service/internal/config"
	"github.com/pressroom/service/internal/db"
	"github.com/pressroom/service/internal/job"
	"github.com/pressroom/service/internal/media"
	appMiddleware "github.com/pressroom/service/internal/middleware"
	"github.com/pressroom/service/internal/storage"
	"github.com/pressroom/service/internal/user"

	_ "github.com/pressroom/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// Media storage: local disk by default, any S3-compatible bucket behind
	// the same interface. Only the local driver serves /uploads itself; the
	// s3 driver hands out URLs pointing at the bucket's public endpoint.
	var store storage.Storage
	var localStore *storage.LocalStorage
	switch cfg.StorageDriver {
	case "s3":
		store, err = storage.NewMinioStorage(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
		)
	default:
		localStore, err = storage.NewLocalStorage(cfg.UploadDir, cfg.PublicAssetBase)
		store = localStore
	}
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	userRepo := user.NewRepository(pool)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(userSvc, cfg)
	authHandler := auth.NewHandler(authSvc)

	blogRepo := blog.NewRepository(pool)
	blogSvc := blog.NewService(blogRepo)
	blogHandler := blog.NewHandler(blogSvc)

	jobRepo := job.NewRepository(pool)
	jobSvc := job.NewService(jobRepo)
	jobHandler := job.NewHandler(jobSvc)

	mediaSvc := media.NewService(store)
	mediaHandler := media.NewHandler(mediaSvc)

	requireAuth := appMiddleware.RequireAuth(cfg.JWTSecret)
	requireAdmin := appMiddleware.RequireRole(appMiddleware.RoleAdmin)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(appMiddleware.SecureHeaders)
	r.Use(httprate.LimitByIP(cfg.RateLimitRPM, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public asset serving, no auth: uploads are meant to be embeddable
	// anywhere once stored.
	if localStore != nil {
		r.Get("/uploads/{filename}", media.ServeAsset(localStore))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints, tighter rate limit against credential stuffing
		r.Route("/auth", func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.AuthRateLimitRPM, time.Minute))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Public content
		r.Get("/posts", blogHandler.ListPublished)
		r.Get("/jobs", jobHandler.ListActive)
		r.Get("/jobs/{id}", jobHandler.Get)

		// Protected user endpoints
		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateMe)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/", userHandler.List)
				r.Delete("/{id}", userHandler.Delete)
			})
		})

		// Post management; the drafts listing must be routed before the
		// public {slug} match.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/posts/drafts", blogHandler.ListAll)
			r.Post("/posts", blogHandler.Create)
			r.Put("/posts/{id}", blogHandler.Update)
			r.Delete("/posts/{id}", blogHandler.Delete)
		})
		r.Get("/posts/{slug}", blogHandler.GetBySlug)

		// Job management
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/jobs", jobHandler.Create)
			r.Put("/jobs/{id}", jobHandler.Update)
			r.Delete("/jobs/{id}", jobHandler.Delete)
		})

		// Media library
		r.Route("/media", func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/", mediaHandler.List)
			r.Post("/", mediaHandler.Upload)
			r.Delete("/{filename}", mediaHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
