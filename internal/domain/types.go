package domain

import (
	"fmt"
	"time"
)

// LifecycleStatus describes where a session is in its schedule,
// derived purely from local metadata and wall-clock time.
type LifecycleStatus string

const (
	LifecycleUpcoming  LifecycleStatus = "upcoming"
	LifecycleActive    LifecycleStatus = "active"
	LifecycleCompleted LifecycleStatus = "completed"
)

// ParticipationStatus describes a viewer's relationship to a session,
// derived purely from the two on-chain predicates.
type ParticipationStatus string

const (
	ParticipationNone       ParticipationStatus = "none"
	ParticipationRegistered ParticipationStatus = "registered"
	ParticipationCheckedIn  ParticipationStatus = "checked-in"
)

// SessionFact is the authoritative on-chain record of a session.
// All fields except the counters are immutable after creation.
type SessionFact struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"created_at"` // block timestamp of the creation tx
	Creator         string    `json:"creator"`    // instructor address (hex)
	RegisteredCount uint64    `json:"registered_count"`
	CheckedInCount  uint64    `json:"checked_in_count"`
}

// SessionMetadata holds the locally cached, non-authoritative fields the
// contract does not record. All fields are optional; a nil field in an
// upsert leaves the stored value untouched.
type SessionMetadata struct {
	StartDate       *string `json:"start_date,omitempty"` // "2006-01-02"
	StartTime       *string `json:"start_time,omitempty"` // "15:04"
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Description     *string `json:"description,omitempty"`
	Creator         *string `json:"creator,omitempty"` // redundant cache of the fact's creator
	LastTxHash      *string `json:"last_tx_hash,omitempty"`
}

// DefaultDurationMinutes is assumed when metadata has a start but no duration.
const DefaultDurationMinutes = 60

// scheduleLayout combines the stored date and time fields.
const scheduleLayout = "2006-01-02T15:04"

// Start returns the session start instant, or false when the schedule
// is incomplete or unparseable.
func (m *SessionMetadata) Start() (time.Time, bool) {
	if m == nil || m.StartDate == nil || m.StartTime == nil {
		return time.Time{}, false
	}
	start, err := time.ParseInLocation(scheduleLayout, fmt.Sprintf("%sT%s", *m.StartDate, *m.StartTime), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

// Duration returns the scheduled duration, defaulting to one hour.
func (m *SessionMetadata) Duration() time.Duration {
	if m == nil || m.DurationMinutes == nil || *m.DurationMinutes <= 0 {
		return DefaultDurationMinutes * time.Minute
	}
	return time.Duration(*m.DurationMinutes) * time.Minute
}

// Session is the composed read view: one ledger fact joined with
// zero-or-one metadata record and the viewer's participation status.
// It is recomputed on every read and never persisted.
type Session struct {
	ID              uint64              `json:"id"`
	Title           string              `json:"title"`
	StartDate       string              `json:"start_date,omitempty"`
	StartTime       string              `json:"start_time,omitempty"`
	DurationMinutes int                 `json:"duration_minutes"`
	Location        string              `json:"location,omitempty"`
	Description     string              `json:"description,omitempty"`
	Lifecycle       LifecycleStatus     `json:"lifecycle_status"`
	Participation   ParticipationStatus `json:"participation_status"`
	RegisteredCount uint64              `json:"registered_count"`
	CheckedInCount  uint64              `json:"checked_in_count"`
	CreatedAt       time.Time           `json:"created_at"`
	Creator         string              `json:"creator"`
	TxHash          string              `json:"tx_hash,omitempty"`
}

// CreateResult is the outcome of a confirmed session-creation transaction.
type CreateResult struct {
	ID     uint64 `json:"id"`
	TxHash string `json:"tx_hash"`
}
