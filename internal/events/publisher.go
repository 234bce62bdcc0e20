package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

const (
	SubjectSessionCreated   = "session.created"
	SubjectSessionJoined    = "session.joined"
	SubjectSessionCompleted = "session.completed"
	SubjectSessionReminder  = "session.reminder"
)

// EventPublisher fans booking activity out to the notification worker.
// Delivery is best effort; booking state never depends on it.
type EventPublisher interface {
	PublishSessionCreated(session *model.Session) error
	PublishSessionJoined(sessionID, userID uuid.UUID) error
	PublishSessionCompleted(session *model.Session) error
	PublishSessionReminder(session *model.Session, userID uuid.UUID) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type SessionCreatedEvent struct {
	EventType    string    `json:"event_type"`
	SessionID    uuid.UUID `json:"session_id"`
	InstructorID uuid.UUID `json:"instructor_id"`
	Name         string    `json:"name"`
	StartAt      time.Time `json:"start_at"`
}

type SessionJoinedEvent struct {
	EventType string    `json:"event_type"`
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

type SessionCompletedEvent struct {
	EventType   string    `json:"event_type"`
	SessionID   uuid.UUID `json:"session_id"`
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completed_at"`
}

type SessionReminderEvent struct {
	EventType string    `json:"event_type"`
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	StartAt   time.Time `json:"start_at"`
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s'", subject)

	return nil
}

func (p *NatsPublisher) PublishSessionCreated(session *model.Session) error {
	return p.publish(SubjectSessionCreated, SessionCreatedEvent{
		EventType:    SubjectSessionCreated,
		SessionID:    session.ID,
		InstructorID: session.InstructorID,
		Name:         session.Name,
		StartAt:      session.StartAt,
	})
}

func (p *NatsPublisher) PublishSessionJoined(sessionID, userID uuid.UUID) error {
	return p.publish(SubjectSessionJoined, SessionJoinedEvent{
		EventType: SubjectSessionJoined,
		SessionID: sessionID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	})
}

func (p *NatsPublisher) PublishSessionCompleted(session *model.Session) error {
	return p.publish(SubjectSessionCompleted, SessionCompletedEvent{
		EventType:   SubjectSessionCompleted,
		SessionID:   session.ID,
		Name:        session.Name,
		CompletedAt: time.Now(),
	})
}

func (p *NatsPublisher) PublishSessionReminder(session *model.Session, userID uuid.UUID) error {
	return p.publish(SubjectSessionReminder, SessionReminderEvent{
		EventType: SubjectSessionReminder,
		SessionID: session.ID,
		UserID:    userID,
		Name:      session.Name,
		StartAt:   session.StartAt,
	})
}
