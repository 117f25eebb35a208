package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/earlysigns/backend/internal/admin"
	"github.com/earlysigns/backend/internal/auth"
	"github.com/earlysigns/backend/internal/chatbot"
	"github.com/earlysigns/backend/internal/config"
	"github.com/earlysigns/backend/internal/database"
	"github.com/earlysigns/backend/internal/dataset"
	"github.com/earlysigns/backend/internal/history"
	"github.com/earlysigns/backend/internal/live"
	"github.com/earlysigns/backend/internal/metrics"
	"github.com/earlysigns/backend/internal/middleware"
	"github.com/earlysigns/backend/internal/screenings"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	m, err := metrics.New(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	// The bundled cohort dataset is parsed once at startup. It feeds the
	// dashboard aggregates and the admin model experiments.
	ds, err := dataset.Load()
	if err != nil {
		log.Fatalf("Failed to load reference dataset: %v", err)
	}
	cohort, err := ds.Stats()
	if err != nil {
		log.Fatalf("Failed to aggregate reference dataset: %v", err)
	}
	log.Printf("Reference dataset loaded: %d records", cohort.Size)

	hist := newHistoryStore(cfg)
	hub := live.NewHub(m)

	secret := []byte(cfg.JWTSecret)
	authMW := middleware.NewAuth(secret, db)

	// Initialize handlers
	authHandler := auth.NewHandler(db, secret)
	chatHandler := chatbot.NewHandler(chatbot.NewService(cfg, m))
	screeningHandler := screenings.NewHandler(
		screenings.NewService(screenings.NewStore(db), hist, m, hub, cohort),
	)
	adminHandler := admin.NewHandler(admin.NewStore(db), ds)
	liveHandler := live.NewHandler(hub, authMW)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Instrument(m))

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/questions", screeningHandler.Questions).Methods("GET")

	chatLimiter := middleware.NewRateLimiter(cfg.ChatRPS)
	api.Handle("/chat", middleware.RateLimit(chatLimiter)(http.HandlerFunc(chatHandler.Chat))).Methods("POST")

	// The live feed carries its token in the query string, so it is
	// registered ahead of the admin subrouter and its header checks.
	api.HandleFunc("/admin/live", liveHandler.Feed).Methods("GET")

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMW.RequireAuth)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Approved-account routes
	approved := api.NewRoute().Subrouter()
	approved.Use(authMW.RequireAuth, authMW.RequireApproved)
	approved.HandleFunc("/screenings", screeningHandler.Submit).Methods("POST")
	approved.HandleFunc("/screenings", screeningHandler.List).Methods("GET")
	approved.HandleFunc("/screenings/recent", screeningHandler.Recent).Methods("GET")
	approved.HandleFunc("/screenings/{reference}", screeningHandler.GetByReference).Methods("GET")
	approved.HandleFunc("/dashboard/stats", screeningHandler.Dashboard).Methods("GET")

	// Admin routes
	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(authMW.RequireAuth, authMW.RequireAdmin)
	adminAPI.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	adminAPI.HandleFunc("/users/{id}/approve", adminHandler.ApproveUser).Methods("POST")
	adminAPI.HandleFunc("/users/{id}/reject", adminHandler.RejectUser).Methods("POST")
	adminAPI.HandleFunc("/stats", adminHandler.Stats).Methods("GET")
	adminAPI.HandleFunc("/experiments", adminHandler.RunExperiment).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: c.Handler(r),
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server exited")
}

// newHistoryStore picks the backing store for recent-screening history.
// Redis is optional; without it the history lives in process memory and
// resets on restart.
func newHistoryStore(cfg *config.Config) history.Store {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, keeping recent screenings in memory")
		return history.NewMemoryStore(cfg.HistoryLimit)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("WARN: redis at %s unreachable, keeping recent screenings in memory: %v", cfg.RedisAddr, err)
		return history.NewMemoryStore(cfg.HistoryLimit)
	}

	log.Printf("Recent screenings history backed by redis at %s", cfg.RedisAddr)
	return history.NewRedisStore(client, cfg.HistoryLimit)
}
