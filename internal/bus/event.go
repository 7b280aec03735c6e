package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds published by the pipeline.
const (
	KindConversationsLoaded = "conversations.loaded"
	KindExportStarted       = "export.started"
	KindExportCompleted     = "export.completed"
	KindExportFailed        = "export.failed"
)

// ConversationsLoaded is the payload for conversations.loaded events.
type ConversationsLoaded struct {
	Contacts int
	Groups   int
}

// ExportStatus is the payload for export.* events.
type ExportStatus struct {
	JobID        string
	Conversation string
	Destination  string
	Messages     int
	Err          string
}
