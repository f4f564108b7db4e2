package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishQueuesEvent(t *testing.T) {
	h := NewHub()

	h.Publish("sale_created", map[string]int{"id": 7}, "Sale #7 recorded")

	require.Len(t, h.Broadcast, 1)
	var ev struct {
		Type    string         `json:"type"`
		Action  string         `json:"action"`
		Data    map[string]int `json:"data"`
		Message string         `json:"message"`
	}
	require.NoError(t, json.Unmarshal(<-h.Broadcast, &ev))
	assert.Equal(t, "business_update", ev.Type)
	assert.Equal(t, "sale_created", ev.Action)
	assert.Equal(t, 7, ev.Data["id"])
	assert.Equal(t, "Sale #7 recorded", ev.Message)
}

func TestPublishDropsWhenFull(t *testing.T) {
	h := NewHub()
	for i := 0; i < broadcastBuffer+5; i++ {
		h.Publish("invoice_created", nil, "")
	}
	assert.Len(t, h.Broadcast, broadcastBuffer)
}

func TestPublishDropsUnencodable(t *testing.T) {
	h := NewHub()
	h.Publish("sale_created", make(chan int), "")
	assert.Len(t, h.Broadcast, 0)
}
