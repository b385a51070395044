package amqp

import (
	"encoding/json"
	"time"

	"trimestre/internal/core"
)

// QuarterSyncMessage carries the consolidated figures of one run to the sync worker.
type QuarterSyncMessage struct {
	RunID     string              `json:"run_id"`
	Summary   core.QuarterSummary `json:"summary"`
	Timestamp time.Time           `json:"timestamp"`
}

func NewQuarterSyncMessage(runID string, summary core.QuarterSummary) *QuarterSyncMessage {
	return &QuarterSyncMessage{
		RunID:     runID,
		Summary:   summary,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *QuarterSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// QuarterSyncMessageFromJSON creates a message from JSON bytes
func QuarterSyncMessageFromJSON(data []byte) (*QuarterSyncMessage, error) {
	var msg QuarterSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
