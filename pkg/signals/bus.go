// Package signals carries the decoupled notifications between the widget core
// and its host page: the host asks the widget to open, the widget announces
// that it finished opening or that a live-agent handoff is wanted. Neither
// side holds a reference to the other.
package signals

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// Topics understood by the widget core.
const (
	TopicOpen     = "chatbot.open"
	TopicOpened   = "chatbot.opened"
	TopicLivechat = "chatbot.livechat"
)

// Bus is an in-process pub/sub bus.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, newWatermillLogger(logger)),
	}
}

func (b *Bus) Publish(topic string, payload []byte) error {
	return b.pubsub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload))
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
