package query

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mgzdb/feature/records"

	"gorm.io/gorm"
)

// Report kinds.
const (
	KindMatch   = "match"
	KindFile    = "file"
	KindSeries  = "series"
	KindSummary = "summary"
)

var (
	// ErrUnknownKind is returned for a report kind that does not exist.
	ErrUnknownKind = errors.New("unknown query kind")
	// ErrInvalidID is returned when the id does not fit the report kind.
	ErrInvalidID = errors.New("invalid id")
)

// Service builds read-only reports.
type Service struct {
	db *gorm.DB
}

// NewService creates a query service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Run builds the report of the given kind. Summary ignores id.
func (s *Service) Run(ctx context.Context, kind, id string) (any, error) {
	db := s.db.WithContext(ctx)
	switch kind {
	case KindMatch:
		n, err := parseID(id)
		if err != nil {
			return nil, err
		}
		return records.GetMatchReport(db, n)
	case KindFile:
		n, err := parseID(id)
		if err != nil {
			return nil, err
		}
		return records.GetFileReport(db, n)
	case KindSeries:
		if id == "" {
			return nil, fmt.Errorf("%w: series id is required", ErrInvalidID)
		}
		return records.GetSeriesReport(db, id)
	case KindSummary:
		return records.GetSummary(db)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return uint(n), nil
}
