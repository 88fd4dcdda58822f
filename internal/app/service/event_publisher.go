package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sifan077/tinyurl/internal/app/model"
)

// EventPublisher announces link lifecycle changes to interested consumers.
type EventPublisher interface {
	Publish(eventType, code, url string) error
}

// JetStreamPublisher publishes link events to NATS JetStream.
type JetStreamPublisher struct {
	js nats.JetStreamContext
}

// NewJetStreamPublisher creates a new link event publisher.
func NewJetStreamPublisher(js nats.JetStreamContext) *JetStreamPublisher {
	return &JetStreamPublisher{js: js}
}

// Publish publishes a link event on links.<eventType>.
func (p *JetStreamPublisher) Publish(eventType, code, url string) error {
	event := model.LinkEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Code:      code,
		URL:       url,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(event.Subject(), data, nats.MsgId(event.ID))
	return err
}
