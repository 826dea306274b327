package models

import "time"

// User is an account issued by the external identity provider. UID is the
// provider's opaque subject identifier; FCMToken is the device push token,
// nil when the user has no registered device.
type User struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FCMToken  *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// HasPushToken reports whether the user can receive push notifications.
func (u *User) HasPushToken() bool {
	return u.FCMToken != nil && *u.FCMToken != ""
}
