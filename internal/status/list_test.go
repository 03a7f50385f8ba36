package status

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendo-service/internal/models"
)

func TestBuildTokenRowTruncation(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	meetings := make([]models.Meeting, 0, 7)
	for i := 0; i < 7; i++ {
		meetings = append(meetings, models.Meeting{ID: i + 1, Date: fmt.Sprintf("2025-0%d-10", i+1)})
	}

	row := BuildTokenRow(meetings, now, false)
	require.Len(t, row.Tokens, 5)
	assert.Equal(t, 7, row.Total)
	assert.True(t, row.Truncated)

	expanded := BuildTokenRow(meetings, now, true)
	require.Len(t, expanded.Tokens, 7)
	assert.False(t, expanded.Truncated)

	collapsed := BuildTokenRow(meetings, now, false)
	assert.Len(t, collapsed.Tokens, 5)
}

func TestBuildTokenRowYearFilterAndOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	meetings := []models.Meeting{
		{ID: 1, Date: "2024-12-31"},
		{ID: 2, Date: "2025-09-01"},
		{ID: 3, Date: "2025-01-05"},
		{ID: 4, Date: "2026-01-01"},
	}

	row := BuildTokenRow(meetings, now, false)
	require.Len(t, row.Tokens, 2)
	assert.Equal(t, 3, row.Tokens[0].MeetingID)
	assert.Equal(t, 2, row.Tokens[1].MeetingID)
	assert.False(t, row.Truncated)
}

func TestBuildTokenRowEmpty(t *testing.T) {
	row := BuildTokenRow(nil, time.Now(), false)
	assert.Empty(t, row.Tokens)
	assert.Zero(t, row.Total)
}
