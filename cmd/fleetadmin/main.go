package main

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-admin/internal/auth"
	"github.com/ukydev/fleet-admin/internal/config"
	"github.com/ukydev/fleet-admin/internal/db"
	"github.com/ukydev/fleet-admin/internal/handlers"
	"github.com/ukydev/fleet-admin/internal/middleware"
	"github.com/ukydev/fleet-admin/internal/mq"
	"github.com/ukydev/fleet-admin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	var bus mq.Bus
	if cfg.MQTTBroker != "" {
		mqttBus, err := mq.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.Fatalf("Failed to connect to MQTT broker: %v", err)
		}
		defer mqttBus.Disconnect()
		bus = mqttBus
		log.WithField("broker", cfg.MQTTBroker).Info("Connected to MQTT broker")
	} else {
		bus = mq.NewMemoryBus()
	}

	trucks := db.NewTruckStore(database, bus)
	subcontractors := db.NewSubcontractorStore(database)
	users := db.NewUserStore(database)
	records := db.NewAuthRecordStore(database)
	waitlist := db.NewWaitlistStore(database)

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry, records, users)
	authMw := middleware.NewAuthMiddleware(authService)
	// Throttle the unauthenticated endpoints per client IP.
	publicLimit := middleware.NewRateLimitMiddleware().Limit(10, 60)

	truckHandler := handlers.NewTruckHandler(trucks)
	subHandler := handlers.NewSubcontractorHandler(subcontractors)
	userHandler := handlers.NewUserHandler(authService)
	waitlistHandler := handlers.NewWaitlistHandler(waitlist)
	authHandler := handlers.NewAuthHandler(authService)
	uploadHandler := handlers.NewUploadHandler(storage.NewClient(cfg.StorageBaseURL))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("POST /api/auth/signin", publicLimit(http.HandlerFunc(authHandler.SignIn)))
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)

	mux.HandleFunc("GET /api/trucks", truckHandler.List)
	mux.HandleFunc("GET /api/trucks/live", truckHandler.Live)
	mux.HandleFunc("GET /api/trucks/{id}", truckHandler.Get)
	mux.HandleFunc("POST /api/trucks", truckHandler.Create)
	mux.HandleFunc("PUT /api/trucks/{id}", truckHandler.Update)

	mux.HandleFunc("GET /api/subcontractors", subHandler.List)
	mux.HandleFunc("GET /api/subcontractors/{id}", subHandler.Get)
	mux.HandleFunc("POST /api/subcontractors", subHandler.Create)
	mux.HandleFunc("PUT /api/subcontractors/{id}", subHandler.Update)
	mux.HandleFunc("DELETE /api/subcontractors/{id}", subHandler.Delete)

	mux.HandleFunc("GET /api/waitlist", waitlistHandler.List)
	mux.Handle("POST /api/waitlist", publicLimit(http.HandlerFunc(waitlistHandler.Create)))
	mux.HandleFunc("DELETE /api/waitlist/{id}", waitlistHandler.Delete)

	mux.HandleFunc("POST /api/uploads", uploadHandler.Upload)

	mux.Handle("GET /api/users", authMw.RequireAdmin(http.HandlerFunc(userHandler.List)))
	mux.Handle("POST /api/users", authMw.RequireAdmin(http.HandlerFunc(userHandler.Create)))
	mux.Handle("PUT /api/users/{uid}/role", authMw.RequireAdmin(http.HandlerFunc(userHandler.UpdateRole)))
	mux.Handle("POST /api/users/sync", authMw.RequireAdmin(http.HandlerFunc(userHandler.Sync)))

	handler := authMw.Authenticate(mux)

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
