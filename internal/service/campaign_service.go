// internal/service/campaign_service.go
package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
	"github.com/unclebandit/qrtrack-backend/internal/repository"
)

type CampaignService struct {
	Store   repository.Store
	BaseURL string
}

// newCampaignID returns "camp_" plus a random suffix. Randomness rather
// than a record count keeps ids unique under concurrent creation.
func newCampaignID() string {
	return "camp_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// validTargetURL requires an absolute http(s) URL with a host, since the
// value is handed straight to a redirect.
func validTargetURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *CampaignService) CreateCampaign(businessName, targetURL, description string) (*model.Campaign, error) {
	businessName = strings.TrimSpace(businessName)
	targetURL = strings.TrimSpace(targetURL)

	var missing []string
	if businessName == "" {
		missing = append(missing, "business_name")
	}
	if targetURL == "" || !validTargetURL(targetURL) {
		missing = append(missing, "target_url")
	}
	if len(missing) > 0 {
		return nil, appErrors.NewValidation(missing...)
	}

	c := &model.Campaign{
		CampaignID:   newCampaignID(),
		BusinessName: businessName,
		TargetURL:    targetURL,
		Description:  description,
		CreatedDate:  time.Now().UTC(),
		Status:       "active",
	}

	if err := s.Store.CreateCampaign(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignService) GetCampaign(campaignID string) (*model.Campaign, error) {
	return s.Store.GetCampaign(campaignID)
}

// ListCampaigns returns every campaign ordered by creation time.
func (s *CampaignService) ListCampaigns() ([]*model.Campaign, error) {
	return s.Store.ListCampaigns()
}

// TrackingURL is the short URL embedded in a printed QR code.
func (s *CampaignService) TrackingURL(campaignID string) string {
	return fmt.Sprintf("%s/scan/%s", s.BaseURL, campaignID)
}
