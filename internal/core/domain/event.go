package domain

// EventType names a message exchanged with live dashboard pages.
type EventType string

const (
	// EventSetDateRange is sent by a page when its date picker changes.
	EventSetDateRange EventType = "SET_DATE_RANGE"
	// EventSummaryUpdated carries the recomputed cards and charts.
	EventSummaryUpdated EventType = "SUMMARY_UPDATED"
	// EventRefresh asks every page to re-request its current range.
	EventRefresh EventType = "REFRESH"
	// EventError reports a failed date-range event to its sender.
	EventError EventType = "ERROR"
	EventPing  EventType = "PING"
	EventPong  EventType = "PONG"
)

// Event is one live channel message.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// DateRangePayload is the payload of EventSetDateRange.
type DateRangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ErrorPayload is the payload of EventError.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
