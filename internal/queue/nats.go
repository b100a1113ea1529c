package queue

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSource receives grading requests from a core NATS subject. Workers
// subscribed with the same queue group share the load.
type NATSSource struct {
	sub *nats.Subscription
}

func NewNATSSource(nc *nats.Conn, subject string, queueGroup string) (*NATSSource, error) {
	sub, err := nc.QueueSubscribeSync(subject, queueGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return &NATSSource{sub: sub}, nil
}

// Receive waits for the next request. Core NATS has no redelivery, so a
// request that carries a reply subject is answered on Ack and Nack with
// whether it was accepted.
func (s *NATSSource) Receive(ctx context.Context) (Message, error) {
	m, err := s.sub.NextMsgWithContext(ctx)
	if err != nil {
		return Message{}, err
	}
	reply := func(accepted bool) func(context.Context) error {
		return func(context.Context) error {
			if m.Reply == "" {
				return nil
			}
			return m.Respond(fmt.Appendf(nil, `{"accepted":%t}`, accepted))
		}
	}
	return Message{
		Body: m.Data,
		Ack:  reply(true),
		Nack: reply(false),
	}, nil
}

func (s *NATSSource) Close() error {
	return s.sub.Unsubscribe()
}
