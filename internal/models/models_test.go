package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"Seconds", "2023-09-04T12:30:15", time.Date(2023, 9, 4, 12, 30, 15, 0, time.UTC)},
		{"Minutes", "2023-09-04T00:00", time.Date(2023, 9, 4, 0, 0, 0, 0, time.UTC)},
		{"Fraction", "2023-09-04T12:30:15.250", time.Date(2023, 9, 4, 12, 30, 15, 250_000_000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time))
		})
	}

	_, err := ParseDateTime("04.09.2023")
	assert.Error(t, err)
}

func TestDateTimeJSON(t *testing.T) {
	var draft BookingDraft
	err := json.Unmarshal([]byte(`{"itemId":3,"start":"2023-09-04T00:00","end":null}`), &draft)
	require.NoError(t, err)
	require.NotNil(t, draft.Start)
	assert.Nil(t, draft.End)
	assert.Equal(t, int64(3), draft.ItemID)

	out, err := json.Marshal(NewShortBooking(&Booking{
		ID:       1,
		Start:    draft.Start.Time,
		End:      draft.Start.Add(12 * time.Hour),
		BookerID: 2,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"start":"2023-09-04T00:00:00","end":"2023-09-04T12:00:00","bookerId":2}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":42}`), &draft))
}

func TestParseBookingState(t *testing.T) {
	for _, raw := range []string{"all", "CURRENT", "Past", "future", "waiting", "REJECTED"} {
		_, ok := ParseBookingState(raw)
		assert.True(t, ok, raw)
	}

	state, ok := ParseBookingState("")
	assert.True(t, ok)
	assert.Equal(t, StateAll, state)

	_, ok = ParseBookingState("UNSUPPORTED_STATUS")
	assert.False(t, ok)
}

func TestNewItemView(t *testing.T) {
	reqID := int64(7)
	view := NewItemView(&Item{ID: 1, Name: "Drill", Description: "Cordless", Available: true, RequestID: &reqID})
	assert.Equal(t, "Drill", view.Name)
	assert.Equal(t, &reqID, view.RequestID)
	assert.NotNil(t, view.Comments)
	assert.Empty(t, view.Comments)
	assert.Nil(t, view.LastBooking)
}
