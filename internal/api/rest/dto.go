package rest

import "github.com/classledger/attendance/internal/domain"

// CreateSessionRequest is the payload for creating a session. Name goes
// on-chain; everything else is local schedule metadata.
type CreateSessionRequest struct {
	Name            string  `json:"name" binding:"required"`
	StartDate       *string `json:"start_date,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// Metadata converts the request's schedule fields into a metadata patch
func (r CreateSessionRequest) Metadata() domain.SessionMetadata {
	return domain.SessionMetadata{
		StartDate:       r.StartDate,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Description:     r.Description,
	}
}

// EditSessionRequest is a partial schedule update; absent fields are left untouched
type EditSessionRequest struct {
	StartDate       *string `json:"start_date,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Location        *string `json:"location,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// Metadata converts the request into a metadata patch
func (r EditSessionRequest) Metadata() domain.SessionMetadata {
	return domain.SessionMetadata{
		StartDate:       r.StartDate,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Description:     r.Description,
	}
}

// SessionListResponse wraps a composed session list
type SessionListResponse struct {
	Sessions []domain.Session `json:"sessions"`
	Total    int              `json:"total"`
}

// TxResponse carries the hash of a confirmed transaction
type TxResponse struct {
	TxHash string `json:"tx_hash"`
}

// HealthResponse reports service and ledger connectivity
type HealthResponse struct {
	Status       string `json:"status"`
	SessionCount uint64 `json:"session_count"`
}
