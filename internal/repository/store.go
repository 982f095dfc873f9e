package repository

import (
	"github.com/unclebandit/qrtrack-backend/internal/model"
)

// Store is the persistence adapter shared by both backends. The adapter
// exclusively owns the on-disk/in-database representation; services never
// cache records across requests.
type Store interface {
	// Campaigns
	CreateCampaign(c *model.Campaign) error
	GetCampaign(campaignID string) (*model.Campaign, error)
	ListCampaigns() ([]*model.Campaign, error)

	// Scans
	InsertScan(s *model.Scan) error
	CampaignStats(campaignID string) (*model.CampaignStats, error)

	Ping() error
	Close() error
}
