package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"

	"github.com/Kali2114/ZenithFlowAPI/internal/events"
	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

// Worker turns booking events into APNs pushes. Without APNs credentials it
// runs in mock mode and only logs what it would have sent.
type Worker struct {
	natsConn   *nats.Conn
	apnsClient *apns2.Client
	userRepo   repository.UserRepository
}

func (w *Worker) handleSessionJoined(msg *nats.Msg) {
	var event events.SessionJoinedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Error unmarshalling session.joined event", slog.String("error", err.Error()))
		return
	}

	slog.Info("Event received",
		slog.String("event_type", event.EventType),
		slog.String("session_id", event.SessionID.String()),
		slog.String("user_id", event.UserID.String()),
	)

	w.pushToUser(event.UserID, `{"aps":{"alert":"You are enrolled! See you on the mat.","sound":"default"}}`)
}

func (w *Worker) handleSessionReminder(msg *nats.Msg) {
	var event events.SessionReminderEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Error unmarshalling session.reminder event", slog.String("error", err.Error()))
		return
	}

	slog.Info("Event received",
		slog.String("event_type", event.EventType),
		slog.String("session_id", event.SessionID.String()),
		slog.String("user_id", event.UserID.String()),
	)

	payload := fmt.Sprintf(`{"aps":{"alert":"Reminder: %s starts tomorrow.","sound":"default"}}`, event.Name)
	w.pushToUser(event.UserID, payload)
}

func (w *Worker) pushToUser(userID uuid.UUID, payload string) {
	tokens, err := w.userRepo.ListDeviceTokens(context.Background(), userID, model.PlatformIOS)
	if err != nil {
		slog.Error("Failed to retrieve device tokens", slog.String("user_id", userID.String()), slog.String("error", err.Error()))
		return
	}

	if len(tokens) == 0 {
		slog.Info("No device tokens for user, nothing sent", slog.String("user_id", userID.String()))
		return
	}

	for _, deviceToken := range tokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       os.Getenv("APNS_TOPIC"),
			Payload:     []byte(payload),
		}

		if w.apnsClient == nil {
			slog.Info("Push notification sent (mock)", slog.String("device", deviceToken))
			continue
		}

		res, err := w.apnsClient.Push(notification)
		if err != nil {
			slog.Error("Failed to send notification", slog.String("error", err.Error()))
		} else if res.Sent() {
			slog.Info("Notification sent", slog.String("apns_id", res.ApnsID))
		} else {
			slog.Error("Notification rejected", slog.String("reason", res.Reason))
		}
	}
}

func Start(natsURL string, userRepo repository.UserRepository) error {
	authKeyPath := os.Getenv("APNS_AUTH_KEY_PATH")
	keyID := os.Getenv("APNS_KEY_ID")
	teamID := os.Getenv("APNS_TEAM_ID")

	var apnsClient *apns2.Client
	if authKeyPath != "" && keyID != "" && teamID != "" {
		slog.Info("APNs credentials found, initializing APNs client")
		authKey, err := token.AuthKeyFromFile(authKeyPath)
		if err != nil {
			return fmt.Errorf("failed to read APNs auth key: %w", err)
		}

		authToken := &token.Token{
			AuthKey: authKey,
			KeyID:   keyID,
			TeamID:  teamID,
		}

		if os.Getenv("APNS_MODE") == "production" {
			apnsClient = apns2.NewTokenClient(authToken).Production()
		} else {
			apnsClient = apns2.NewTokenClient(authToken).Development()
		}
	} else {
		slog.Info("APNs credentials not found, worker will run in MOCK mode")
	}

	nc, err := nats.Connect(natsURL)
	if err != nil {
		return err
	}

	w := &Worker{
		natsConn:   nc,
		apnsClient: apnsClient,
		userRepo:   userRepo,
	}

	if _, err := nc.Subscribe(events.SubjectSessionJoined, w.handleSessionJoined); err != nil {
		return err
	}

	if _, err := nc.Subscribe(events.SubjectSessionReminder, w.handleSessionReminder); err != nil {
		return err
	}

	return nil
}
