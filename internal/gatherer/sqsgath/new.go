package sqsgath

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Sender is the part of *sqs.Client the gatherer needs.
type Sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// NewSqsResponseQueueGatherer streams the events of one evaluation to the
// response queue at queueUrl.
func NewSqsResponseQueueGatherer(ctx context.Context, client Sender, evalUuid string, queueUrl string, log *slog.Logger) *sqsResQueueGatherer {
	return &sqsResQueueGatherer{
		ctx:       ctx,
		sqsClient: client,
		queueUrl:  queueUrl,
		evalUuid:  evalUuid,
		log:       log.With("eval_uuid", evalUuid),
	}
}
