package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
	"github.com/unclebandit/qrtrack-backend/internal/visitor"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func testCampaign(id string) *model.Campaign {
	return &model.Campaign{
		CampaignID:   id,
		BusinessName: "Joe's Pizza",
		TargetURL:    "https://joespizza.com/promo",
		Description:  "flyer campaign",
	}
}

func TestCreateGetCampaignRoundTrip(t *testing.T) {
	store := newTestStore(t)

	c := testCampaign("camp_aaa111")
	require.NoError(t, store.CreateCampaign(c))
	require.Equal(t, "active", c.Status, "status should default to active")
	require.False(t, c.CreatedDate.IsZero())

	got, err := store.GetCampaign("camp_aaa111")
	require.NoError(t, err)
	require.Equal(t, c.BusinessName, got.BusinessName)
	require.Equal(t, c.TargetURL, got.TargetURL)
	require.Equal(t, c.Description, got.Description)
	require.Equal(t, c.Status, got.Status)
}

func TestGetCampaignNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCampaign("camp_missing")
	var notFound *appErrors.ErrCampaignNotFound
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "camp_missing", notFound.CampaignID)
}

func TestListCampaignsOrderedByCreation(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		c := testCampaign(fmt.Sprintf("camp_%04d", i))
		c.CreatedDate = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.CreateCampaign(c))
	}

	campaigns, err := store.ListCampaigns()
	require.NoError(t, err)
	require.Len(t, campaigns, 3)
	for i, c := range campaigns {
		require.Equal(t, fmt.Sprintf("camp_%04d", i), c.CampaignID)
	}
}

func TestInsertScanUnknownCampaignWritesNothing(t *testing.T) {
	store := newTestStore(t)

	scan := &model.Scan{CampaignID: "camp_missing", Timestamp: time.Now().UTC()}
	err := store.InsertScan(scan)
	var notFound *appErrors.ErrCampaignNotFound
	require.ErrorAs(t, err, &notFound)

	all, err := store.AllScans()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestCampaignStats(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateCampaign(testCampaign("camp_stats01")))
	require.NoError(t, store.CreateCampaign(testCampaign("camp_other02")))

	base := time.Now().UTC()
	// 12 scans from 2 distinct visitors, plus one scan on another campaign.
	for i := 0; i < 12; i++ {
		ip := "203.0.113.1"
		if i%2 == 0 {
			ip = "203.0.113.2"
		}
		scan := &model.Scan{
			CampaignID:  "camp_stats01",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
			IPAddress:   ip,
			UserAgent:   "Mozilla/5.0",
			VisitorHash: visitor.Fingerprint(ip, "Mozilla/5.0"),
		}
		require.NoError(t, store.InsertScan(scan))
	}
	require.NoError(t, store.InsertScan(&model.Scan{
		CampaignID:  "camp_other02",
		Timestamp:   base,
		IPAddress:   "203.0.113.9",
		VisitorHash: visitor.Fingerprint("203.0.113.9", ""),
	}))

	stats, err := store.CampaignStats("camp_stats01")
	require.NoError(t, err)
	require.Equal(t, 12, stats.TotalScans)
	require.Equal(t, 2, stats.UniqueVisitors)
	require.Len(t, stats.RecentScans, 10, "recent scans capped at 10")

	for i := 1; i < len(stats.RecentScans); i++ {
		require.False(t, stats.RecentScans[i].Timestamp.After(stats.RecentScans[i-1].Timestamp),
			"recent scans must be newest-first")
	}
	require.Equal(t, base.Add(11*time.Second), stats.RecentScans[0].Timestamp)
}

func TestStatsForCampaignWithNoScans(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateCampaign(testCampaign("camp_quiet99")))

	stats, err := store.CampaignStats("camp_quiet99")
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalScans)
	require.Equal(t, 0, stats.UniqueVisitors)
	require.Empty(t, stats.RecentScans)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.CreateCampaign(testCampaign("camp_reopen1")))

	reopened, err := NewJSONStore(dir)
	require.NoError(t, err)
	got, err := reopened.GetCampaign("camp_reopen1")
	require.NoError(t, err)
	require.Equal(t, "Joe's Pizza", got.BusinessName)
}
