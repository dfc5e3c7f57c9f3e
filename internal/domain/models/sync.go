package models

// EventType enumerates the kinds of mutations mirrored to external sinks.
type EventType string

const (
	EventSale       EventType = "SALE"
	EventStockIn    EventType = "STOCK_IN"
	EventConversion EventType = "CONVERSION"
)

// SyncEvent is the payload delivered to the external mirror.
type SyncEvent struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp string    `json:"timestamp"`
}

// Mirror states reported by SyncStatus.
const (
	SyncStateSyncing   = "syncing"
	SyncStateConnected = "connected"
	SyncStateDisabled  = "disabled"
)

// SyncStatus describes the mirror queue for the status indicator.
type SyncStatus struct {
	State           string    `json:"state"`
	Pending         int       `json:"pending"`
	Sinks           []string  `json:"sinks"`
	Delivered       uint64    `json:"delivered"`
	Failed          uint64    `json:"failed"`
	Dropped         uint64    `json:"dropped"`
	LastEventType   EventType `json:"lastEventType,omitempty"`
	LastDeliveredAt string    `json:"lastDeliveredAt,omitempty"`
	LastError       string    `json:"lastError,omitempty"`
}
