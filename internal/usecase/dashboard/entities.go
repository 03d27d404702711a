package dashboard

import (
	"time"

	domain "allgroub-ledger/internal/domain/dashboard"
)

type AggregateInput struct {
	Role           string
	CallerOfficeID string
	// OfficeID narrows the snapshot; only callers that may view all offices can pick one
	// other than their own.
	OfficeID string
	At       time.Time
}

type AggregateDTO struct {
	domain.Metrics
	Summary string `json:"summary,omitempty"`
}
