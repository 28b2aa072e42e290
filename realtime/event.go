package realtime

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a change in the planner.
type EventType string

const (
	EventOrderCreated          EventType = "order.created"
	EventOrderUpdated          EventType = "order.updated"
	EventOrderReadyForDelivery EventType = "order.ready_for_delivery"
	EventDeliveryScheduled     EventType = "order.delivery_scheduled"
	EventOrderCompleted        EventType = "order.completed"
	EventDepartmentChanged     EventType = "furniture.department_changed"
	EventPriorityChanged       EventType = "furniture.priority_changed"
	EventNoteCreated           EventType = "note.created"
	EventUserChanged           EventType = "user.changed"
	EventOrganizationChanged   EventType = "organization.changed"
	EventSupervisorChanged     EventType = "supervisor.changed"
)

// Event is a change notification pushed to connected clients.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	OrderNumber string    `json:"order_number,omitempty"`
	ItemID      string    `json:"item_id,omitempty"`
	Subject     string    `json:"subject,omitempty"` // id of a user, organization or supervisor
	Data        any       `json:"data,omitempty"`
	Origin      string    `json:"origin"` // instance that produced the event
	At          time.Time `json:"at"`
}

// NewEvent creates an event of type t with a fresh id.
func NewEvent(t EventType) Event {
	return Event{ID: uuid.NewString(), Type: t, At: time.Now().UTC()}
}

// Publisher accepts change events.
type Publisher interface {
	Publish(ev Event)
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
