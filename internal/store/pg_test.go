package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/store/schema"
)

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "0", SessionKey(0))
	assert.Equal(t, "42", SessionKey(42))
	assert.Equal(t, "18446744073709551615", SessionKey(^uint64(0)))
}

func TestRowRoundTrip(t *testing.T) {
	metadata := domain.SessionMetadata{
		StartDate:       stringPtr("2025-03-10"),
		StartTime:       stringPtr("09:00"),
		DurationMinutes: intPtr(50),
		Location:        stringPtr("Room 204"),
		Creator:         stringPtr("0x1111111111111111111111111111111111111111"),
		LastTxHash:      stringPtr("0xabc"),
	}

	row := RowFromMetadata(7, metadata)
	assert.Equal(t, "7", row.SessionID)

	back := MetadataFromRow(row)
	assert.Equal(t, metadata, back)
}

func TestMetadataFromRow_SparseRow(t *testing.T) {
	row := schema.SessionMetadata{
		SessionID: "3",
		Location:  stringPtr("Lab 1"),
	}

	metadata := MetadataFromRow(row)
	assert.Nil(t, metadata.StartDate)
	assert.Nil(t, metadata.StartTime)
	assert.Nil(t, metadata.DurationMinutes)
	require.NotNil(t, metadata.Location)
	assert.Equal(t, "Lab 1", *metadata.Location)
}

func TestPatchAssignments(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.SessionMetadata
		want  map[string]interface{}
	}{
		{
			name:  "empty patch touches nothing",
			patch: domain.SessionMetadata{},
			want:  map[string]interface{}{},
		},
		{
			name: "partial patch only touches its fields",
			patch: domain.SessionMetadata{
				Location:        stringPtr("Room 204"),
				DurationMinutes: intPtr(90),
			},
			want: map[string]interface{}{
				"location":         "Room 204",
				"duration_minutes": 90,
			},
		},
		{
			name: "full patch",
			patch: domain.SessionMetadata{
				StartDate:       stringPtr("2025-03-10"),
				StartTime:       stringPtr("09:00"),
				DurationMinutes: intPtr(50),
				Location:        stringPtr("Room 204"),
				Description:     stringPtr("Consensus lecture"),
				Creator:         stringPtr("0x11"),
				LastTxHash:      stringPtr("0xabc"),
			},
			want: map[string]interface{}{
				"start_date":       "2025-03-10",
				"start_time":       "09:00",
				"duration_minutes": 50,
				"location":         "Room 204",
				"description":      "Consensus lecture",
				"creator":          "0x11",
				"last_tx_hash":     "0xabc",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, patchAssignments(tt.patch))
		})
	}
}
