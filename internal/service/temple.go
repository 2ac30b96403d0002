package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// TemplesFile is the temple catalog inside the data directory.
const TemplesFile = "temples.json"

// TempleService serves the temple catalog, keyed by region id.
type TempleService struct {
	dataDir string
	log     *zap.Logger
	temples map[string][]Temple
	mu      sync.RWMutex
}

// NewTempleService loads the catalog from dataDir. A missing or
// unreadable file leaves the catalog empty.
func NewTempleService(dataDir string, log *zap.Logger) *TempleService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &TempleService{
		dataDir: dataDir,
		log:     log,
		temples: make(map[string][]Temple),
	}
	if err := s.Reload(); err != nil {
		s.log.Warn("temple catalog not loaded", zap.String("path", s.catalogFile()), zap.Error(err))
	}
	return s
}

// ForRegion returns a copy of the temples of one region, or an empty slice.
func (s *TempleService) ForRegion(id string) []Temple {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.temples[id]
	out := make([]Temple, len(src))
	copy(out, src)
	return out
}

// All returns a copy of the whole catalog.
func (s *TempleService) All() map[string][]Temple {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]Temple, len(s.temples))
	for k, v := range s.temples {
		result[k] = append([]Temple(nil), v...)
	}
	return result
}

// Regions returns the ids that have at least one temple, sorted.
func (s *TempleService) Regions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.temples))
	for id, list := range s.temples {
		if len(list) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Count returns the total number of temples.
func (s *TempleService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, list := range s.temples {
		n += len(list)
	}
	return n
}

// Reload re-reads the catalog file. On error the previous catalog is kept.
func (s *TempleService) Reload() error {
	data, err := os.ReadFile(s.catalogFile())
	if err != nil {
		return fmt.Errorf("reading temples: %w", err)
	}

	var temples map[string][]Temple
	if err := json.Unmarshal(data, &temples); err != nil {
		return fmt.Errorf("parsing temples: %w", err)
	}

	s.mu.Lock()
	s.temples = temples
	s.mu.Unlock()

	s.log.Info("temple catalog loaded", zap.Int("regions", len(temples)), zap.Int("temples", s.Count()))
	return nil
}

func (s *TempleService) catalogFile() string {
	return filepath.Join(s.dataDir, TemplesFile)
}
