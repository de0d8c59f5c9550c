package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewPayload struct {
	ReviewID   string `json:"review_id"`
	TargetType string `json:"target_type"`
	Rating     int    `json:"rating"`
}

func TestNewEvent(t *testing.T) {
	payload := reviewPayload{ReviewID: "r-1", TargetType: "job", Rating: 5}
	evt, err := NewEvent("review.upserted", "r-1", "review", "jobboard-api", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "review.upserted", evt.EventType)
	assert.Equal(t, "r-1", evt.AggregateID)
	assert.Equal(t, "review", evt.AggregateType)
	assert.Equal(t, 1, evt.Version)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestEvent_RoundTrip(t *testing.T) {
	payload := reviewPayload{ReviewID: "r-2", TargetType: "company", Rating: 3}
	evt, err := NewEvent("review.deleted", "r-2", "review", "jobboard-api", payload)
	require.NoError(t, err)
	evt.WithCorrelationID("corr-1").WithMetadata("reason", "author_request")

	data, err := evt.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, evt.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
	assert.Equal(t, "author_request", decoded.Metadata["reason"])

	var got reviewPayload
	require.NoError(t, decoded.UnmarshalData(&got))
	assert.Equal(t, payload, got)
}
