package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// DeviceToken is a push registration. Only iOS tokens are delivered to today
// (APNs); Android rows are stored so a later FCM sender can pick them up.
type DeviceToken struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	DeviceToken string    `db:"device_token"`
	Platform    string    `db:"platform"`
	CreatedAt   time.Time `db:"created_at"`
}
