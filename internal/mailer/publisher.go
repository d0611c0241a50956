package mailer

import "log"

// Publisher emits account lifecycle events for downstream consumers. The
// application layer calls it explicitly after a successful create or
// delete.
type Publisher interface {
	AccountCreated(id uint, email, username, secret string) error
	AccountDeleted(id uint, email, username, secret string) error
}

// LogPublisher writes lifecycle events to the process log. It stands in
// where no external event bus is configured.
type LogPublisher struct{}

func (LogPublisher) AccountCreated(id uint, email, username, secret string) error {
	log.Printf("event: account created id=%d username=%s", id, username)
	return nil
}

func (LogPublisher) AccountDeleted(id uint, email, username, secret string) error {
	log.Printf("event: account deleted id=%d username=%s", id, username)
	return nil
}
