// cmd/migrate/main.go
//
// One-shot migration of the JSON document backend into Postgres.
// Campaigns that already exist are skipped; scans referencing unknown
// campaigns are reported and dropped.
package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"github.com/unclebandit/qrtrack-backend/internal/config"
	"github.com/unclebandit/qrtrack-backend/internal/db"
	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.DBURL == "" {
		log.Fatal("DATABASE_URL required: migration always targets Postgres")
	}

	jsonStore, err := repository.NewJSONStore(cfg.DataDir)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DBURL)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer conn.Close()
	if err := db.EnsureSchema(conn); err != nil {
		log.Fatal("failed to apply schema:", err)
	}
	pgStore := &repository.PostgresStore{DB: conn}

	campaigns, err := jsonStore.ListCampaigns()
	if err != nil {
		log.Fatal("failed to read campaigns:", err)
	}

	migrated, skipped := 0, 0
	for _, c := range campaigns {
		if err := pgStore.CreateCampaign(c); err != nil {
			if isUniqueViolation(err) {
				skipped++ // campaign already exists
				continue
			}
			log.Fatalf("failed to migrate campaign %s: %v", c.CampaignID, err)
		}
		migrated++
	}
	fmt.Printf("Campaigns: %d migrated, %d already present\n", migrated, skipped)

	scans, err := jsonStore.AllScans()
	if err != nil {
		log.Fatal("failed to read scans:", err)
	}

	migrated, skipped = 0, 0
	for i := range scans {
		if err := pgStore.InsertScan(&scans[i]); err != nil {
			var notFound *appErrors.ErrCampaignNotFound
			if errors.As(err, &notFound) {
				log.Println("dropping scan for unknown campaign", scans[i].CampaignID)
				skipped++
				continue
			}
			log.Fatal("failed to migrate scan:", err)
		}
		migrated++
	}
	fmt.Printf("Scans: %d migrated, %d dropped\n", migrated, skipped)

	fmt.Println("JSON data migration completed")
}

func isUniqueViolation(err error) bool {
	var persistence *appErrors.ErrPersistence
	if !errors.As(err, &persistence) {
		return false
	}
	pqErr, ok := persistence.Err.(*pq.Error)
	return ok && pqErr.Code.Name() == "unique_violation"
}
