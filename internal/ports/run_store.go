package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Summary of one planning run, recorded for later reporting.
type RunRecord struct {
	ID            uuid.UUID
	Mode          string
	GroupCount    int
	NodeCount     int
	Visited       int
	TotalDistance float64
	TotalTime     float64
	CreatedAt     time.Time
}

// Port: persistence for planning run summaries.
type RunStore interface {
	SaveRun(ctx context.Context, run RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
