package queue

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
	"github.com/unclebandit/qrtrack-backend/internal/repository"
)

// ScanWritesTopic carries scans whose synchronous store insert failed.
const ScanWritesTopic = "scan_writes"

// Publisher is the narrow side used by services to hand off failed writes.
type Publisher interface {
	Publish(topic string, payload any) error
}

// Queue interface
type Queue interface {
	Publisher
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process pub/sub queue with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("job failed (attempt %d/%d): %v\n", job.RetryCount, job.MaxRetries, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartScanWriteSubscriber drains backlogged scans into the store. A scan
// whose campaign no longer exists is dropped rather than retried.
func StartScanWriteSubscriber(q Queue, store repository.Store) {
	err := q.Subscribe(ScanWritesTopic, func(payload any) error {
		scan, ok := payload.(model.Scan)
		if !ok {
			log.Printf("scan backlog: unexpected payload type %T, dropping", payload)
			return nil
		}

		err := store.InsertScan(&scan)
		if err != nil {
			var notFound *appErrors.ErrCampaignNotFound
			if errors.As(err, &notFound) {
				log.Println("scan backlog: campaign gone, dropping scan for", scan.CampaignID)
				return nil // no retry
			}
			return err // triggers retry in queue
		}
		return nil
	})
	if err != nil {
		log.Println("failed to start scan backlog subscriber:", err)
	}
}
