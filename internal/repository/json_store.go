package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
	"github.com/unclebandit/qrtrack-backend/internal/model"
)

const (
	campaignsFileName = "campaigns.json"
	scansFileName     = "scans.json"
)

// scanFile mirrors the on-disk layout: a single object holding the
// append-only scan list.
type scanFile struct {
	Scans []model.Scan `json:"scans"`
}

// JSONStore is the flat-file document backend. Both files are rewritten
// whole on every write; the mutex serializes writers within the process
// and each rewrite goes through a temp file + rename so a crash mid-write
// never leaves a truncated file behind.
type JSONStore struct {
	dir string
	mu  sync.RWMutex
}

// NewJSONStore creates the data directory if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, appErrors.NewPersistence("init json store", err)
	}
	return &JSONStore{dir: dir}, nil
}

// ====================== Campaigns ======================

func (s *JSONStore) CreateCampaign(c *model.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.CreatedDate.IsZero() {
		c.CreatedDate = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = "active"
	}

	campaigns, err := s.loadCampaigns()
	if err != nil {
		return err
	}
	campaigns[c.CampaignID] = *c
	return s.writeFile(campaignsFileName, campaigns)
}

func (s *JSONStore) GetCampaign(campaignID string) (*model.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaigns, err := s.loadCampaigns()
	if err != nil {
		return nil, err
	}
	c, ok := campaigns[campaignID]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(campaignID)
	}
	return &c, nil
}

func (s *JSONStore) ListCampaigns() ([]*model.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaigns, err := s.loadCampaigns()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Campaign, 0, len(campaigns))
	for id := range campaigns {
		c := campaigns[id]
		out = append(out, &c)
	}
	// The map has no order; match the relational backend's query order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedDate.Before(out[j].CreatedDate)
	})
	return out, nil
}

// ====================== Scans ======================

// InsertScan replicates the relational backend's referential check
// explicitly: a scan against an unknown campaign is rejected without a
// write.
func (s *JSONStore) InsertScan(scan *model.Scan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns, err := s.loadCampaigns()
	if err != nil {
		return err
	}
	if _, ok := campaigns[scan.CampaignID]; !ok {
		return appErrors.NewCampaignNotFound(scan.CampaignID)
	}

	sf, err := s.loadScans()
	if err != nil {
		return err
	}
	sf.Scans = append(sf.Scans, *scan)
	return s.writeFile(scansFileName, sf)
}

func (s *JSONStore) CampaignStats(campaignID string) (*model.CampaignStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := s.loadScans()
	if err != nil {
		return nil, err
	}

	stats := &model.CampaignStats{CampaignID: campaignID, RecentScans: []model.Scan{}}
	seen := map[string]struct{}{}
	matched := []model.Scan{}
	for _, scan := range sf.Scans {
		if scan.CampaignID != campaignID {
			continue
		}
		matched = append(matched, scan)
		seen[scan.VisitorHash] = struct{}{}
	}

	stats.TotalScans = len(matched)
	stats.UniqueVisitors = len(seen)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if len(matched) > recentScanLimit {
		matched = matched[:recentScanLimit]
	}
	stats.RecentScans = matched
	return stats, nil
}

// AllScans returns every recorded scan in insertion order. Used by the
// JSON→Postgres migration tool.
func (s *JSONStore) AllScans() ([]model.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := s.loadScans()
	if err != nil {
		return nil, err
	}
	return sf.Scans, nil
}

func (s *JSONStore) Ping() error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *JSONStore) Close() error { return nil }

// ====================== File IO ======================

func (s *JSONStore) loadCampaigns() (map[string]model.Campaign, error) {
	campaigns := map[string]model.Campaign{}
	if err := s.readFile(campaignsFileName, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (s *JSONStore) loadScans() (*scanFile, error) {
	sf := &scanFile{Scans: []model.Scan{}}
	if err := s.readFile(scansFileName, sf); err != nil {
		return nil, err
	}
	return sf, nil
}

func (s *JSONStore) readFile(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil // missing file means no records yet
		}
		return appErrors.NewPersistence("read "+name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return appErrors.NewPersistence("decode "+name, err)
	}
	return nil
}

func (s *JSONStore) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return appErrors.NewPersistence("encode "+name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return appErrors.NewPersistence("write "+name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return appErrors.NewPersistence("write "+name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return appErrors.NewPersistence("write "+name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return appErrors.NewPersistence("write "+name, err)
	}
	return nil
}

var _ Store = (*JSONStore)(nil)
