// internal/model/campaign.go
package model

import "time"

type Campaign struct {
	CampaignID   string    `db:"campaign_id" json:"campaign_id"`
	BusinessName string    `db:"business_name" json:"business_name"`
	TargetURL    string    `db:"target_url" json:"target_url"`
	Description  string    `db:"description" json:"description"`
	CreatedDate  time.Time `db:"created_date" json:"created_date"`
	Status       string    `db:"status" json:"status"`
}
