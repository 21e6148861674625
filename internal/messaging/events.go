package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	EventRecordCreated = "record.created"
	EventRecordUpdated = "record.updated"
	EventRecordDeleted = "record.deleted"
)

const serviceName = "records-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

func newBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: serviceName,
	}
}

// RecordCreatedEvent represents a patient record creation event
type RecordCreatedEvent struct {
	BaseEvent
	Data RecordCreatedData `json:"data"`
}

type RecordCreatedData struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
}

// NewRecordCreatedEvent builds a record.created event
func NewRecordCreatedEvent(patientID, name, location string) RecordCreatedEvent {
	return RecordCreatedEvent{
		BaseEvent: newBaseEvent(EventRecordCreated),
		Data: RecordCreatedData{
			PatientID: patientID,
			Name:      name,
			Location:  location,
		},
	}
}

// RecordUpdatedEvent represents a patient record update event
type RecordUpdatedEvent struct {
	BaseEvent
	Data RecordUpdatedData `json:"data"`
}

type RecordUpdatedData struct {
	PatientID     string   `json:"patient_id"`
	UpdatedFields []string `json:"updated_fields"`
}

// NewRecordUpdatedEvent builds a record.updated event
func NewRecordUpdatedEvent(patientID string, updatedFields []string) RecordUpdatedEvent {
	return RecordUpdatedEvent{
		BaseEvent: newBaseEvent(EventRecordUpdated),
		Data: RecordUpdatedData{
			PatientID:     patientID,
			UpdatedFields: updatedFields,
		},
	}
}

// RecordDeletedEvent represents a patient record deletion event
type RecordDeletedEvent struct {
	BaseEvent
	Data RecordDeletedData `json:"data"`
}

type RecordDeletedData struct {
	PatientID string    `json:"patient_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// NewRecordDeletedEvent builds a record.deleted event
func NewRecordDeletedEvent(patientID string) RecordDeletedEvent {
	return RecordDeletedEvent{
		BaseEvent: newBaseEvent(EventRecordDeleted),
		Data: RecordDeletedData{
			PatientID: patientID,
			DeletedAt: time.Now().UTC(),
		},
	}
}
