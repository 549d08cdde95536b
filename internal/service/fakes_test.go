package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
	"alcyxob/adaptive-trainer/internal/repository"
)

type fakeAthleteRepo struct {
	mu       sync.Mutex
	athletes map[string]domain.Athlete
}

func newFakeAthleteRepo(athletes ...domain.Athlete) *fakeAthleteRepo {
	r := &fakeAthleteRepo{athletes: map[string]domain.Athlete{}}
	for _, a := range athletes {
		r.athletes[a.ID] = a
	}
	return r
}

func (r *fakeAthleteRepo) Create(_ context.Context, athlete *domain.Athlete) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if athlete.ID == "" {
		athlete.ID = "generated-id"
	}
	if _, ok := r.athletes[athlete.ID]; ok {
		return repository.ErrDuplicate
	}
	r.athletes[athlete.ID] = *athlete
	return nil
}

func (r *fakeAthleteRepo) GetByID(_ context.Context, id string) (*domain.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAthleteRepo) List(_ context.Context) ([]domain.Athlete, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Athlete, 0, len(r.athletes))
	for _, a := range r.athletes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAthleteRepo) Update(_ context.Context, athlete *domain.Athlete) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.athletes[athlete.ID]; !ok {
		return repository.ErrNotFound
	}
	r.athletes[athlete.ID] = *athlete
	return nil
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]domain.SessionRecord
	listErr   error
	upsertErr error
	upserts   int
}

func newFakeSessionRepo(sessions ...domain.SessionRecord) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: map[string]domain.SessionRecord{}}
	for _, s := range sessions {
		r.sessions[s.ID] = s
	}
	return r
}

func (r *fakeSessionRepo) ListByAthlete(_ context.Context, athleteID string, limit int) ([]domain.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.SessionRecord
	for _, s := range r.sessions {
		if s.AthleteID == athleteID {
			out = append(out, s)
		}
	}
	out = domain.SessionsNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) ListInRange(_ context.Context, athleteID string, from, to time.Time) ([]domain.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.SessionRecord
	for _, s := range r.sessions {
		if s.AthleteID == athleteID && !s.Date.Before(from) && s.Date.Before(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeSessionRepo) Upsert(_ context.Context, session *domain.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts++
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) get(id string) (domain.SessionRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type fakeCheckInRepo struct {
	mu       sync.Mutex
	checkIns []domain.CheckIn
}

func (r *fakeCheckInRepo) Create(_ context.Context, checkIn *domain.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkIns = append(r.checkIns, *checkIn)
	return nil
}

func (r *fakeCheckInRepo) ListByAthlete(_ context.Context, athleteID string, limit int) ([]domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CheckIn
	for _, c := range domain.CheckInsNewestFirst(r.checkIns) {
		if c.AthleteID == athleteID {
			out = append(out, c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeExportRepo struct {
	mu        sync.Mutex
	exports   []domain.ScheduleExport
	createErr error
}

func (r *fakeExportRepo) Create(_ context.Context, export *domain.ScheduleExport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.exports = append(r.exports, *export)
	return nil
}

func (r *fakeExportRepo) GetLatest(_ context.Context, athleteID string, weekStart time.Time) (*domain.ScheduleExport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.exports) - 1; i >= 0; i-- {
		e := r.exports[i]
		if e.AthleteID == athleteID && e.WeekStart.Equal(weekStart) {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) PutObject(_ context.Context, objectKey, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = append([]byte(nil), body...)
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}
