package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tradebench/backend/internal/auth"
	"github.com/tradebench/backend/internal/config"
	"github.com/tradebench/backend/internal/database"
	"github.com/tradebench/backend/internal/generator"
	"github.com/tradebench/backend/internal/middleware"
	"github.com/tradebench/backend/internal/progress"
	"github.com/tradebench/backend/internal/questions"
	"github.com/tradebench/backend/internal/store"
	"github.com/tradebench/backend/internal/store/local"
	"github.com/tradebench/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()

	// Select the storage backend once; everything downstream sees the
	// same interfaces.
	var st store.Store
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		st = postgres.New(db)
		log.Println("[server] storage backend: postgres")
	default:
		s, err := local.Open(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open offline store: %v", err)
		}
		st = s
		log.Printf("[server] storage backend: offline (%s)", cfg.DataDir)
	}
	defer st.Close()

	// Initialize services and handlers
	adapter := auth.NewAdapter(st.Profiles(), cfg.JWTSecret)
	authHandler := auth.NewHandler(adapter)

	gen := generator.NewGenerator()
	questionService := questions.NewService(st.Questions(), st.StudyGuides(), gen)
	questionHandler := questions.NewHandler(questionService)

	progressService := progress.NewService(st, cfg.HistoryLimit)
	progressHandler := progress.NewHandler(progressService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/questions", questionHandler.ListQuestions).Methods("GET")
	api.HandleFunc("/questions/{id:[0-9]+}", questionHandler.GetQuestion).Methods("GET")
	api.HandleFunc("/guides", questionHandler.ListGuides).Methods("GET")
	api.HandleFunc("/guides/{id:[0-9]+}", questionHandler.GetGuide).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth([]byte(cfg.JWTSecret)))
	protected.HandleFunc("/auth/me", authHandler.UpdateMe).Methods("PUT")

	protected.HandleFunc("/progress/{year:[0-9]+}", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/{year:[0-9]+}", progressHandler.UpdateProgress).Methods("PUT")
	protected.HandleFunc("/progress/{year:[0-9]+}", progressHandler.ResetProgress).Methods("DELETE")

	protected.HandleFunc("/bookmarks", progressHandler.ListBookmarks).Methods("GET")
	protected.HandleFunc("/bookmarks/{questionID:[0-9]+}", progressHandler.AddBookmark).Methods("POST")
	protected.HandleFunc("/bookmarks/{questionID:[0-9]+}", progressHandler.RemoveBookmark).Methods("DELETE")

	protected.HandleFunc("/sessions", progressHandler.StartQuiz).Methods("POST")
	protected.HandleFunc("/sessions", progressHandler.History).Methods("GET")
	protected.HandleFunc("/sessions/{id}/complete", progressHandler.CompleteQuiz).Methods("POST")

	// Admin seeding routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Admin(cfg.AdminToken))
	admin.HandleFunc("/questions/import", questionHandler.Import).Methods("POST")
	admin.HandleFunc("/questions/generate", questionHandler.Generate).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
