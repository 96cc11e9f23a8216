// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// CodeIssuedEvent is published whenever the auth workflow issues a
// confirmation code. Downstream consumers (a mailer in production, the log
// consumer here) deliver the link to the person without touching the
// primary database.
type CodeIssuedEvent struct {
	Purpose  string `json:"purpose"` // "activate-person" | "reset-password"
	URL      string `json:"url"`
	IssuedAt string `json:"issued_at"`
}
