// Package events publishes domain events for downstream consumers
// (notification fan-out, reporting pipelines). Delivery is best-effort:
// publishing failures are logged, never surfaced to the API caller.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// Source identifies this service in every published event.
	Source = "training-service"

	// Version is the event envelope version.
	Version = "1.0"
)

// Event types emitted by this service.
const (
	EventGateToggled          = "access.gate_toggled"
	EventGateReleased         = "access.gate_released"
	EventTestSubmitted        = "test.submitted"
	EventChecklistSubmitted   = "checklist.submitted"
	EventChecklistVerified    = "checklist.verified"
	EventFeedbackSubmitted    = "feedback.submitted"
	EventCertificateUploaded  = "certificate.uploaded"
	EventSessionStatusChanged = "session.status_changed"
	EventReportSubmitted      = "report.submitted"
)

// Event is the envelope wrapping every published payload.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope around a payload.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers events to the configured transport.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ===== EVENT PAYLOADS =====

// GateToggledEvent fires when a single participant's gate changes.
type GateToggledEvent struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
	Gate          string `json:"gate"`
	Open          bool   `json:"open"`
	ChangedBy     string `json:"changed_by"`
}

// GateReleasedEvent fires when a gate is opened for a whole session.
type GateReleasedEvent struct {
	SessionID string `json:"session_id"`
	Gate      string `json:"gate"`
	ChangedBy string `json:"changed_by"`
}

type TestSubmittedEvent struct {
	SessionID     string  `json:"session_id"`
	ParticipantID string  `json:"participant_id"`
	TestType      string  `json:"test_type"`
	Score         float64 `json:"score"`
	Passed        bool    `json:"passed"`
}

type ChecklistSubmittedEvent struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
	ChecklistID   string `json:"checklist_id"`
	Interval      string `json:"interval"`
	SubmittedBy   string `json:"submitted_by"`
}

type ChecklistVerifiedEvent struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
	ChecklistID   string `json:"checklist_id"`
	VerifiedBy    string `json:"verified_by"`
	Status        string `json:"status"`
}

type FeedbackSubmittedEvent struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
}

type CertificateUploadedEvent struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
	UploadedBy    string `json:"uploaded_by"`
}

type SessionStatusChangedEvent struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
}

type ReportSubmittedEvent struct {
	SessionID     string `json:"session_id"`
	CoordinatorID string `json:"coordinator_id"`
}
