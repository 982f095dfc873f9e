package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
)

// recentScanLimit caps the recent_scans list returned by CampaignStats.
const recentScanLimit = 10

type PostgresStore struct {
	DB *sql.DB
}

// ====================== Campaigns ======================

func (r *PostgresStore) CreateCampaign(c *model.Campaign) error {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = "active"
	}
	query := `
        INSERT INTO campaigns (campaign_id, business_name, target_url, description, created_date, status)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.DB.Exec(query, c.CampaignID, c.BusinessName, c.TargetURL, c.Description, c.CreatedDate, c.Status)
	if err != nil {
		return appErrors.NewPersistence("create campaign", err)
	}
	return nil
}

func (r *PostgresStore) GetCampaign(campaignID string) (*model.Campaign, error) {
	query := `
        SELECT campaign_id, business_name, target_url, COALESCE(description, ''), created_date, status
        FROM campaigns WHERE campaign_id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, campaignID).Scan(
		&c.CampaignID, &c.BusinessName, &c.TargetURL, &c.Description, &c.CreatedDate, &c.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(campaignID)
		}
		return nil, appErrors.NewPersistence("get campaign", err)
	}
	return &c, nil
}

func (r *PostgresStore) ListCampaigns() ([]*model.Campaign, error) {
	query := `
        SELECT campaign_id, business_name, target_url, COALESCE(description, ''), created_date, status
        FROM campaigns ORDER BY created_date ASC
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, appErrors.NewPersistence("list campaigns", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.CampaignID, &c.BusinessName, &c.TargetURL, &c.Description, &c.CreatedDate, &c.Status); err != nil {
			return nil, appErrors.NewPersistence("list campaigns", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewPersistence("list campaigns", err)
	}
	return campaigns, nil
}

// ====================== Scans ======================

// InsertScan appends one scan row. The campaigns foreign key enforces
// that the campaign exists; a violation is surfaced as not-found so both
// backends behave identically.
func (r *PostgresStore) InsertScan(s *model.Scan) error {
	query := `
        INSERT INTO scans (campaign_id, timestamp, ip_address, user_agent, referrer, visitor_hash, country, city)
        VALUES ($1, $2, NULLIF($3, '')::inet, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''))
    `
	_, err := r.DB.Exec(query,
		s.CampaignID, s.Timestamp, s.IPAddress, s.UserAgent, s.Referrer, s.VisitorHash, s.Country, s.City,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return appErrors.NewCampaignNotFound(s.CampaignID)
		}
		return appErrors.NewPersistence("insert scan", err)
	}
	return nil
}

func (r *PostgresStore) CampaignStats(campaignID string) (*model.CampaignStats, error) {
	stats := &model.CampaignStats{CampaignID: campaignID, RecentScans: []model.Scan{}}

	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM scans WHERE campaign_id=$1`, campaignID,
	).Scan(&stats.TotalScans)
	if err != nil {
		return nil, appErrors.NewPersistence("campaign stats", err)
	}

	err = r.DB.QueryRow(
		`SELECT COUNT(DISTINCT visitor_hash) FROM scans WHERE campaign_id=$1`, campaignID,
	).Scan(&stats.UniqueVisitors)
	if err != nil {
		return nil, appErrors.NewPersistence("campaign stats", err)
	}

	rows, err := r.DB.Query(`
        SELECT campaign_id, timestamp, COALESCE(ip_address::text, ''), user_agent, referrer, visitor_hash
        FROM scans WHERE campaign_id=$1
        ORDER BY timestamp DESC LIMIT $2
    `, campaignID, recentScanLimit)
	if err != nil {
		return nil, appErrors.NewPersistence("campaign stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.Scan
		if err := rows.Scan(&s.CampaignID, &s.Timestamp, &s.IPAddress, &s.UserAgent, &s.Referrer, &s.VisitorHash); err != nil {
			return nil, appErrors.NewPersistence("campaign stats", err)
		}
		stats.RecentScans = append(stats.RecentScans, s)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewPersistence("campaign stats", err)
	}
	return stats, nil
}

func (r *PostgresStore) Ping() error {
	return r.DB.Ping()
}

func (r *PostgresStore) Close() error {
	return r.DB.Close()
}

var _ Store = (*PostgresStore)(nil)
