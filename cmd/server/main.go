// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/qrtrack-backend/internal/config"
	"github.com/unclebandit/qrtrack-backend/internal/controller"
	"github.com/unclebandit/qrtrack-backend/internal/db"
	"github.com/unclebandit/qrtrack-backend/internal/queue"
	"github.com/unclebandit/qrtrack-backend/internal/repository"
	"github.com/unclebandit/qrtrack-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Open the storage backend once; everything downstream gets the handle.
	var store repository.Store
	switch cfg.Backend {
	case config.BackendPostgres:
		conn, err := db.Open(cfg.DBURL)
		if err != nil {
			log.Fatalf("failed to connect to DB: %v", err)
		}
		if err := db.EnsureSchema(conn); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
		store = &repository.PostgresStore{DB: conn}
	case config.BackendJSON:
		store, err = repository.NewJSONStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("failed to open JSON store: %v", err)
		}
	}
	defer store.Close()

	// Failed scan writes go to RabbitMQ when a broker is configured so the
	// backlog survives restarts; otherwise an in-process queue retries them.
	var backlog queue.Publisher
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("failed to connect to AMQP broker: %v", err)
		}
		defer amqpQueue.Close()
		backlog = amqpQueue
	} else {
		q := queue.NewInMemoryQueue()
		queue.StartScanWriteSubscriber(q, store)
		backlog = q
	}

	campaignService := &service.CampaignService{
		Store:   store,
		BaseURL: cfg.BaseURL,
	}
	scanService := &service.ScanService{
		Store:   store,
		Backlog: backlog,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		ScanService:     scanService,
	}
	scanController := &controller.ScanController{
		CampaignService: campaignService,
		ScanService:     scanService,
	}

	r := chi.NewRouter()

	r.Get("/", campaignController.Home)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not_ready"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	// Campaign routes
	r.Post("/create_campaign", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/generate_qr/{campaignID}", campaignController.GenerateQR)

	// Scan routes
	r.Get("/scan/{campaignID}", scanController.ScanRedirect)
	r.Get("/campaign/{campaignID}/stats", scanController.CampaignStats)

	log.Printf("🚀 Server running on :%s (backend=%s, base_url=%s)", cfg.Port, cfg.Backend, cfg.BaseURL)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
