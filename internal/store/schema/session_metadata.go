package schema

import "time"

// SessionMetadata caches the scheduling fields the contract does not
// record, keyed by the string-encoded ledger session id. Rows are created
// at session creation, merged by edits and never deleted.
type SessionMetadata struct {
	SessionID       string    `gorm:"primaryKey;type:text"`
	StartDate       *string   `gorm:"type:text"`
	StartTime       *string   `gorm:"type:text"`
	DurationMinutes *int      `gorm:""`
	Location        *string   `gorm:"type:text"`
	Description     *string   `gorm:"type:text"`
	Creator         *string   `gorm:"type:text;index"`
	LastTxHash      *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (SessionMetadata) TableName() string {
	return "session_metadata"
}
