package natsgath

import (
	"log/slog"
)

// Publisher is the part of *nats.Conn the gatherer needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// New creates a NATS gatherer that streams events of one evaluation to the
// given subject.
func New(nc Publisher, evalUuid string, subject string, log *slog.Logger) *natsGatherer {
	return &natsGatherer{
		nc:       nc,
		subject:  subject,
		evalUuid: evalUuid,
		log:      log.With("eval_uuid", evalUuid, "subject", subject),
	}
}
