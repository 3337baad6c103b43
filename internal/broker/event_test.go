package broker

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_BodyAndHeaders(t *testing.T) {
	e := NewEvent(EventReportRendered, "html")

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(e.Body()), &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "report_rendered", got.Event)
	assert.Equal(t, "html", got.Format)
	assert.True(t, e.At.Equal(got.At))

	h := e.Headers()
	assert.Equal(t, "report_rendered", h["event"])
	assert.Equal(t, e.ID, h["event_id"])
	assert.NoError(t, h.Validate())
}

func TestEvent_UniqueIDs(t *testing.T) {
	a := NewEvent(EventSnapshotSeeded, "")
	b := NewEvent(EventSnapshotSeeded, "")
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotContains(t, a.Body(), "format")
}

func TestDecodeEvent(t *testing.T) {
	e := NewEvent(EventSnapshotSeeded, "")

	got, err := DecodeEvent([]byte(e.Body()))
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, EventSnapshotSeeded, got.Event)

	_, err = DecodeEvent([]byte(`{"id":"x"}`))
	assert.Error(t, err)

	_, err = DecodeEvent([]byte("texto"))
	assert.Error(t, err)
}
