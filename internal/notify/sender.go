// Package notify dispatches confirmation-code links out-of-band. The sender
// logs the link (the development stand-in for a mailer) and publishes a
// CodeIssuedEvent to RabbitMQ; delivery failures are logged and dropped, the
// auth workflow never retries them.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/uritmix/studio-api/internal/queue"
)

// Sender implements the auth workflow's Notifier contract.
type Sender struct {
	ActivatePersonURL string
	ResetPasswordURL  string
}

func NewSender(activateURL, resetURL string) *Sender {
	return &Sender{ActivatePersonURL: activateURL, ResetPasswordURL: resetURL}
}

func (s *Sender) SendActivationToken(token string) {
	url := s.ActivatePersonURL + "/" + token
	log.Printf("notify: activate person url: %s", url)
	publishCodeIssued(q.CodeIssuedEvent{
		Purpose:  "activate-person",
		URL:      url,
		IssuedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Sender) SendPasswordResetToken(token string) {
	url := s.ResetPasswordURL + "/" + token
	log.Printf("notify: reset password url: %s", url)
	publishCodeIssued(q.CodeIssuedEvent{
		Purpose:  "reset-password",
		URL:      url,
		IssuedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// publishCodeIssued pushes the event to the auth.code.issued queue. The
// connection is short-lived; messages are persistent so they survive broker
// restarts. Any error is logged and swallowed.
func publishCodeIssued(event q.CodeIssuedEvent) {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		"auth.code.issued", // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", "auth.code.issued", false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
	}
}
