// internal/model/scan.go
package model

import "time"

// Scan is append-only: rows are inserted once and never updated.
type Scan struct {
	CampaignID  string    `db:"campaign_id" json:"campaign_id"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	IPAddress   string    `db:"ip_address" json:"ip_address"`
	UserAgent   string    `db:"user_agent" json:"user_agent"`
	Referrer    string    `db:"referrer" json:"referrer"`
	VisitorHash string    `db:"visitor_hash" json:"visitor_hash"`
	Country     string    `db:"country" json:"country,omitempty"` // geo placeholder, unpopulated
	City        string    `db:"city" json:"city,omitempty"`       // geo placeholder, unpopulated
}

// CampaignStats is the canonical stats shape returned by both storage backends.
type CampaignStats struct {
	CampaignID     string `json:"campaign_id"`
	TotalScans     int    `json:"total_scans"`
	UniqueVisitors int    `json:"unique_visitors"`
	RecentScans    []Scan `json:"recent_scans"`
}
