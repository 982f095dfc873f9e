package service_test

import (
	"errors"
	"strings"
	"testing"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
	"github.com/unclebandit/qrtrack-backend/internal/service"
)

// MockStore records what the services asked it to persist.
type MockStore struct {
	campaigns map[string]*model.Campaign
	scans     []model.Scan

	insertScanErr error
	created       int
}

func NewMockStore() *MockStore {
	return &MockStore{campaigns: map[string]*model.Campaign{}}
}

func (m *MockStore) CreateCampaign(c *model.Campaign) error {
	m.created++
	m.campaigns[c.CampaignID] = c
	return nil
}

func (m *MockStore) GetCampaign(id string) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func (m *MockStore) ListCampaigns() ([]*model.Campaign, error) {
	out := []*model.Campaign{}
	for _, c := range m.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockStore) InsertScan(s *model.Scan) error {
	if m.insertScanErr != nil {
		return m.insertScanErr
	}
	m.scans = append(m.scans, *s)
	return nil
}

func (m *MockStore) CampaignStats(id string) (*model.CampaignStats, error) {
	stats := &model.CampaignStats{CampaignID: id, RecentScans: []model.Scan{}}
	seen := map[string]struct{}{}
	for _, s := range m.scans {
		if s.CampaignID != id {
			continue
		}
		stats.TotalScans++
		seen[s.VisitorHash] = struct{}{}
	}
	stats.UniqueVisitors = len(seen)
	return stats, nil
}

func (m *MockStore) Ping() error  { return nil }
func (m *MockStore) Close() error { return nil }

// --- CampaignService tests ---

func TestCreateCampaign(t *testing.T) {
	store := NewMockStore()
	svc := &service.CampaignService{Store: store, BaseURL: "http://localhost:8080"}

	c, err := svc.CreateCampaign("Joe's Pizza", "https://joespizza.com/promo", "flyer")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if !strings.HasPrefix(c.CampaignID, "camp_") {
		t.Errorf("expected camp_ prefix, got %q", c.CampaignID)
	}
	if c.Status != "active" {
		t.Errorf("expected status active, got %q", c.Status)
	}
	if c.CreatedDate.IsZero() {
		t.Error("created date not set")
	}

	trackingURL := svc.TrackingURL(c.CampaignID)
	if !strings.Contains(trackingURL, "/scan/"+c.CampaignID) {
		t.Errorf("tracking URL %q does not contain campaign id", trackingURL)
	}

	got, err := svc.GetCampaign(c.CampaignID)
	if err != nil {
		t.Fatalf("get after create failed: %v", err)
	}
	if got.BusinessName != "Joe's Pizza" || got.TargetURL != "https://joespizza.com/promo" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	cases := []struct {
		name         string
		businessName string
		targetURL    string
		wantField    string
	}{
		{"empty business name", "", "https://joespizza.com", "business_name"},
		{"empty target url", "Joe's Pizza", "", "target_url"},
		{"relative target url", "Joe's Pizza", "/promo", "target_url"},
		{"schemeless target url", "Joe's Pizza", "joespizza.com/promo", "target_url"},
		{"non-http scheme", "Joe's Pizza", "ftp://joespizza.com", "target_url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMockStore()
			svc := &service.CampaignService{Store: store}

			_, err := svc.CreateCampaign(tc.businessName, tc.targetURL, "")
			var validation *appErrors.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}

			found := false
			for _, f := range validation.Fields {
				if f == tc.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q among invalid fields, got %v", tc.wantField, validation.Fields)
			}
			if store.created != 0 {
				t.Error("validation failure must not create a record")
			}
		})
	}
}

func TestCreateCampaignMissingBothFields(t *testing.T) {
	svc := &service.CampaignService{Store: NewMockStore()}

	_, err := svc.CreateCampaign("", "", "")
	var validation *appErrors.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validation.Fields) != 2 {
		t.Errorf("expected both fields reported, got %v", validation.Fields)
	}
}

func TestCampaignIDsUnique(t *testing.T) {
	store := NewMockStore()
	svc := &service.CampaignService{Store: store}

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c, err := svc.CreateCampaign("Joe's Pizza", "https://joespizza.com", "")
		if err != nil {
			t.Fatal(err)
		}
		if seen[c.CampaignID] {
			t.Fatalf("duplicate campaign id %s", c.CampaignID)
		}
		seen[c.CampaignID] = true
	}
}
