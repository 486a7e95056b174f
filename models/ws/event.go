package wsmodels

// EventCode — тип события рассылки.
type EventCode string

const (
	EventDocumentCreated  EventCode = "document_created"
	EventDocumentAssigned EventCode = "document_assigned"
	EventApprovalChanged  EventCode = "approval_status_changed"
	EventUpdateRead       EventCode = "update_read"
	EventNewInbox         EventCode = "new_inbox"
	EventNewWaiting       EventCode = "new_waiting"
)

// Event рассылается всем подключённым сессиям, фильтрация по
// релевантности — на стороне клиента.
type Event struct {
	Event      EventCode `json:"event"`
	DocumentID int64     `json:"document_id"`
	UserID     int64     `json:"user_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Status     string    `json:"status,omitempty"`
	Category   string    `json:"category,omitempty"`
}
