// Package memory keeps sites and check-in records in process memory. It backs
// CHECKIN_STORAGE=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

type dayKey struct {
	employeeID string
	day        string
}

type Store struct {
	mu      sync.RWMutex
	sites   map[uuid.UUID]domain.OfficeSite
	records map[dayKey]domain.CheckInRecord
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		sites:   make(map[uuid.UUID]domain.OfficeSite),
		records: make(map[dayKey]domain.CheckInRecord),
		now:     time.Now,
	}
}

func (s *Store) Create(_ context.Context, site *domain.OfficeSite) error {
	const op = "memory.Site.Create"
	if site == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = s.now().UTC()
	}
	if site.Status == "" {
		site.Status = domain.SiteActive
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sites[site.ID]; ok {
		return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
	}
	s.sites[site.ID] = *site
	return nil
}

func (s *Store) Upsert(_ context.Context, site *domain.OfficeSite) error {
	const op = "memory.Site.Upsert"
	if site == nil || site.ID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if site.Status == "" {
		site.Status = domain.SiteActive
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.sites[site.ID]; ok {
		site.CreatedAt = old.CreatedAt
	} else if site.CreatedAt.IsZero() {
		site.CreatedAt = s.now().UTC()
	}
	s.sites[site.ID] = *site
	return nil
}

func (s *Store) List(_ context.Context, page, limit int) ([]*domain.OfficeSite, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	active := s.activeSites()
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	total := int64(len(active))
	start := (page - 1) * limit
	if start >= len(active) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(active) {
		end = len(active)
	}
	return active[start:end], total, nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*domain.OfficeSite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	site, ok := s.sites[id]
	if !ok {
		return nil, fmt.Errorf("memory.Site.Get: %w", e.ErrNotFound)
	}
	return &site, nil
}

func (s *Store) Update(_ context.Context, site *domain.OfficeSite) error {
	const op = "memory.Site.Update"
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.sites[site.ID]
	if !ok {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	next := *site
	next.CreatedAt = old.CreatedAt
	s.sites[site.ID] = next
	return nil
}

func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	const op = "memory.Site.Delete"
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[id]
	if !ok || site.Status != domain.SiteActive {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	site.Status = domain.SiteInactive
	s.sites[id] = site
	return nil
}

func (s *Store) ListActive(_ context.Context) ([]*domain.OfficeSite, error) {
	return s.activeSites(), nil
}

func (s *Store) activeSites() []*domain.OfficeSite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.OfficeSite, 0, len(s.sites))
	for _, site := range s.sites {
		if site.Status != domain.SiteActive {
			continue
		}
		site := site
		out = append(out, &site)
	}
	return out
}

// InsertDaily stores rec unless an accepted record already exists for the
// same employee and day. The check and the write happen under one lock.
func (s *Store) InsertDaily(_ context.Context, rec *domain.CheckInRecord) (*domain.CheckInRecord, bool, error) {
	const op = "memory.CheckIn.InsertDaily"
	if rec == nil || rec.EmployeeID == "" || rec.Day == "" {
		return nil, false, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = domain.RecordAccepted
	}

	key := dayKey{employeeID: rec.EmployeeID, day: rec.Day}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		return &existing, false, nil
	}
	s.records[key] = *rec
	stored := *rec
	return &stored, true, nil
}

func (s *Store) FindDaily(_ context.Context, employeeID, day string) (*domain.CheckInRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[dayKey{employeeID: employeeID, day: day}]
	if !ok {
		return nil, fmt.Errorf("memory.CheckIn.FindDaily: %w", e.ErrNotFound)
	}
	return &rec, nil
}

func (s *Store) ListDay(_ context.Context, day string) ([]*domain.CheckInRecord, error) {
	s.mu.RLock()
	out := make([]*domain.CheckInRecord, 0)
	for k, rec := range s.records {
		if k.day != day {
			continue
		}
		rec := rec
		out = append(out, &rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CountDay(ctx context.Context, day string) (*domain.DailyStats, error) {
	records, err := s.ListDay(ctx, day)
	if err != nil {
		return nil, err
	}
	st := &domain.DailyStats{Day: day}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.EmployeeID] = struct{}{}
		switch r.Method {
		case domain.MethodQR:
			st.QRCount++
		case domain.MethodManual:
			st.ManualCount++
		}
	}
	st.Employees = int64(len(seen))
	return st, nil
}
