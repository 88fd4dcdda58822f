package model

import "time"

// LinkEvent describes a lifecycle change of a short link.
type LinkEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Code      string    `json:"code"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	LinkEventCreated = "created"
	LinkEventDeleted = "deleted"
)

const (
	LinkStreamName     = "LINKS"
	LinkStreamSubjects = "links.>"
	LinkStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)

// Subject returns the JetStream subject the event is published on.
func (e LinkEvent) Subject() string {
	return "links." + e.Type
}
