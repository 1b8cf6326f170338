package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// JobsUpdatedEvent is pushed to the dashboard after any successful store
// write.
type JobsUpdatedEvent struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Added     int    `json:"added"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyJobsUpdated broadcasts a jobs_updated event. A nil default hub (no
// server running, e.g. the CLI) makes this a no-op.
func NotifyJobsUpdated(source string, added int) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := JobsUpdatedEvent{
		Type:      "jobs_updated",
		Source:    source,
		Added:     added,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
