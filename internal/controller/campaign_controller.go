// internal/controller/campaign_controller.go
package controller

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
	"github.com/unclebandit/qrtrack-backend/internal/qr"
	"github.com/unclebandit/qrtrack-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	ScanService     *service.ScanService
}

const homePage = `<h1>QR Tracking Server</h1>
<p>Server is running! 🚀</p>
<p>Ready to track QR code scans.</p>
`

var qrPageTmpl = template.Must(template.New("qr_page").Parse(`<h2>QR Code: {{.BusinessName}}</h2>
<p>Campaign ID: {{.CampaignID}}</p>
<p>Target: {{.TargetURL}}</p>
<p>Total Scans: {{.TotalScans}} | Unique Visitors: {{.UniqueVisitors}}</p>
<img src="{{.ImageSrc}}" alt="QR Code">
`))

type qrPageData struct {
	BusinessName   string
	CampaignID     string
	TargetURL      string
	TotalScans     int
	UniqueVisitors int
	ImageSrc       template.URL
}

func (c *CampaignController) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, homePage)
}

// CreateCampaign handles POST /create_campaign.
func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BusinessName string `json:"business_name"`
		TargetURL    string `json:"target_url"`
		Description  string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(body.BusinessName, body.TargetURL, body.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"campaign_id":  campaign.CampaignID,
		"tracking_url": c.CampaignService.TrackingURL(campaign.CampaignID),
		"campaign":     campaign,
	})
}

// ListCampaigns returns all campaigns as an object keyed by campaign_id.
func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	byID := make(map[string]*model.Campaign, len(campaigns))
	for _, campaign := range campaigns {
		byID[campaign.CampaignID] = campaign
	}
	writeJSON(w, http.StatusOK, byID)
}

// GenerateQR renders an HTML page embedding the tracking URL's QR code as
// a base64 PNG, plus a live stats line for the campaign.
func (c *CampaignController) GenerateQR(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")

	campaign, err := c.CampaignService.GetCampaign(campaignID)
	if err != nil {
		if _, ok := err.(*appErrors.ErrCampaignNotFound); ok {
			http.Error(w, fmt.Sprintf("Campaign %s not found", campaignID), http.StatusNotFound)
			return
		}
		writeServiceError(w, err)
		return
	}

	stats, err := c.ScanService.Stats(campaignID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	trackingURL := c.CampaignService.TrackingURL(campaignID)
	png, err := qr.Render(trackingURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data := qrPageData{
		BusinessName:   campaign.BusinessName,
		CampaignID:     campaign.CampaignID,
		TargetURL:      campaign.TargetURL,
		TotalScans:     stats.TotalScans,
		UniqueVisitors: stats.UniqueVisitors,
		ImageSrc:       template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	qrPageTmpl.Execute(w, data)
}
