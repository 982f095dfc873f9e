// internal/controller/scan_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/service"
)

type ScanController struct {
	CampaignService *service.CampaignService
	ScanService     *service.ScanService
}

// ScanRedirect handles GET /scan/{campaignID}: log the visit, then send
// the visitor on to the campaign's target URL. A logging failure never
// blocks the redirect; it is logged server-side instead.
func (c *ScanController) ScanRedirect(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")

	campaign, err := c.CampaignService.GetCampaign(campaignID)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, fmt.Sprintf("Campaign %s not found", campaignID), http.StatusNotFound)
			return
		}
		writeServiceError(w, err)
		return
	}

	err = c.ScanService.RecordScan(campaignID, clientIP(r), r.UserAgent(), r.Referer())
	if err != nil {
		// Visitor experience over logging completeness.
		log.Println("failed to record scan for", campaignID, ":", err)
	}

	http.Redirect(w, r, campaign.TargetURL, http.StatusFound)
}

// CampaignStats handles GET /campaign/{campaignID}/stats.
func (c *ScanController) CampaignStats(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")

	stats, err := c.ScanService.Stats(campaignID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
