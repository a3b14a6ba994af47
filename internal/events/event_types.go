package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventUserLoggedIn           EventType = "user_logged_in"
	EventUserLoggedOut          EventType = "user_logged_out"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordChanged        EventType = "password_changed"
)

// Event represents an auth domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload carries the email verification token minted at signup.
type UserRegisteredPayload struct {
	Username          string `json:"username"`
	VerificationToken string `json:"verification_token"`
}

// UserLoggedOutPayload records the revoked token id.
type UserLoggedOutPayload struct {
	TokenID string `json:"token_id"`
}

// PasswordResetRequestedPayload carries the reset token for mail delivery.
type PasswordResetRequestedPayload struct {
	ResetToken string `json:"reset_token"`
}
