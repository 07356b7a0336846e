// Package events carries booking events between the outbox and the read
// model handlers. Every event travels on a topic derived from its struct
// name, JSON-encoded, so the bus and the processor must agree on both.
package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

// marshaler is shared by the bus and the processor; a mismatch would
// silently drop every event.
var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

func eventTopic(eventName string) string {
	return "events." + eventName
}

func NewEventBus(
	pub message.Publisher,
	logger watermill.LoggerAdapter,
) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				return eventTopic(params.EventName), nil
			},
			Marshaler: marshaler,
			Logger:    logger,
		},
	)
}
