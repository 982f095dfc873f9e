// internal/service/scan_service.go
package service

import (
	"errors"
	"log"
	"time"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
	"github.com/unclebandit/qrtrack-backend/internal/queue"
	"github.com/unclebandit/qrtrack-backend/internal/repository"
	"github.com/unclebandit/qrtrack-backend/internal/visitor"
)

type ScanService struct {
	Store   repository.Store
	Backlog queue.Publisher // optional; receives scans whose insert failed
}

// RecordScan appends one scan against an existing campaign. A persistence
// failure is handed to the backlog for a later retry and still returned,
// so the HTTP handler can log it and proceed with the redirect.
func (s *ScanService) RecordScan(campaignID, ipAddress, userAgent, referrer string) error {
	if _, err := s.Store.GetCampaign(campaignID); err != nil {
		return err
	}

	scan := model.Scan{
		CampaignID:  campaignID,
		Timestamp:   time.Now().UTC(),
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		Referrer:    referrer,
		VisitorHash: visitor.Fingerprint(ipAddress, userAgent),
	}

	if err := s.Store.InsertScan(&scan); err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			return err
		}
		if s.Backlog != nil {
			if pubErr := s.Backlog.Publish(queue.ScanWritesTopic, scan); pubErr != nil {
				log.Println("failed to backlog scan for", campaignID, ":", pubErr)
			}
		}
		return err
	}
	return nil
}

// Stats aggregates scan counts for one campaign.
func (s *ScanService) Stats(campaignID string) (*model.CampaignStats, error) {
	if _, err := s.Store.GetCampaign(campaignID); err != nil {
		return nil, err
	}
	return s.Store.CampaignStats(campaignID)
}
