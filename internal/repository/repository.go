package repository

import (
	"context"
	"time"

	"alcyxob/adaptive-trainer/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInvalidInput = RepositoryError("invalid input")
	ErrDuplicate    = RepositoryError("already exists")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// AthleteRepository stores athlete profiles.
type AthleteRepository interface {
	Create(ctx context.Context, athlete *domain.Athlete) error
	GetByID(ctx context.Context, id string) (*domain.Athlete, error)
	List(ctx context.Context) ([]domain.Athlete, error)
	Update(ctx context.Context, athlete *domain.Athlete) error
}

// SessionRepository stores session history and planned placeholders.
type SessionRepository interface {
	// ListByAthlete returns up to limit sessions, newest first. limit <= 0 means no limit.
	ListByAthlete(ctx context.Context, athleteID string, limit int) ([]domain.SessionRecord, error)
	// ListInRange returns sessions dated in [from, to), oldest first.
	ListInRange(ctx context.Context, athleteID string, from, to time.Time) ([]domain.SessionRecord, error)
	// Upsert inserts or replaces a session by ID.
	Upsert(ctx context.Context, session *domain.SessionRecord) error
}

// CheckInRepository stores daily readiness check-ins.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) error
	// ListByAthlete returns up to limit check-ins, newest first. limit <= 0 means no limit.
	ListByAthlete(ctx context.Context, athleteID string, limit int) ([]domain.CheckIn, error)
}

// ExportRepository stores schedule export metadata.
type ExportRepository interface {
	Create(ctx context.Context, export *domain.ScheduleExport) error
	GetLatest(ctx context.Context, athleteID string, weekStart time.Time) (*domain.ScheduleExport, error)
}
