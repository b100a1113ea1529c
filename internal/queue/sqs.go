package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSClient is the part of *sqs.Client the source needs.
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
}

const sqsWaitTimeSeconds = 5

// SQSSource long-polls an SQS queue. A request is deleted on Ack and made
// visible again at once on Nack.
type SQSSource struct {
	client   SQSClient
	queueUrl string
	pending  []types.Message
}

func NewSQSSource(client SQSClient, queueUrl string) *SQSSource {
	return &SQSSource{client: client, queueUrl: queueUrl}
}

func (s *SQSSource) Receive(ctx context.Context) (Message, error) {
	for len(s.pending) == 0 {
		output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.queueUrl),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     sqsWaitTimeSeconds,
		})
		if err != nil {
			return Message{}, err
		}
		s.pending = output.Messages
	}

	m := s.pending[0]
	s.pending = s.pending[1:]
	handle := m.ReceiptHandle
	return Message{
		Body: []byte(aws.ToString(m.Body)),
		Ack: func(ctx context.Context) error {
			_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(s.queueUrl),
				ReceiptHandle: handle,
			})
			return err
		},
		Nack: func(ctx context.Context) error {
			_, err := s.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
				QueueUrl:          aws.String(s.queueUrl),
				ReceiptHandle:     handle,
				VisibilityTimeout: 0,
			})
			return err
		},
	}, nil
}
