// cmd/worker/main.go
//
// Drains the durable scan-write backlog: scans the server failed to
// persist are published to RabbitMQ, and this worker replays them into
// Postgres. Ack on success, requeue on backend failure, drop when the
// campaign no longer exists.
package main

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/unclebandit/qrtrack-backend/internal/config"
	"github.com/unclebandit/qrtrack-backend/internal/db"
	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
	"github.com/unclebandit/qrtrack-backend/internal/queue"
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
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL required for the backlog worker")
	}
	if cfg.DBURL == "" {
		log.Fatal("DATABASE_URL required for the backlog worker")
	}

	// Connect to DB
	conn, err := db.Open(cfg.DBURL)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer conn.Close()
	if err := db.EnsureSchema(conn); err != nil {
		log.Fatal("failed to apply schema:", err)
	}
	store := &repository.PostgresStore{DB: conn}

	// Connect to RabbitMQ
	amqpConn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.ScanWritesTopic, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var scan model.Scan
			if err := json.Unmarshal(d.Body, &scan); err != nil {
				log.Println("Invalid scan payload:", err)
				d.Ack(false)
				continue
			}

			err := store.InsertScan(&scan)
			if err != nil {
				var notFound *appErrors.ErrCampaignNotFound
				if errors.As(err, &notFound) {
					log.Println("Campaign gone, dropping scan for", scan.CampaignID)
					d.Ack(false)
					continue
				}

				log.Println("Failed to persist scan, requeueing:", err)
				d.Nack(false, true)
				time.Sleep(time.Second) // avoid a hot requeue loop
				continue
			}

			d.Ack(false)
		}
	}()

	log.Println("🚀 Backlog worker running, waiting for scans...")
	<-forever
}
