package queue_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekshiva/codechecker/internal/queue"
)

type fakeSQS struct {
	batches [][]types.Message
	deleted []string
	revived []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if len(f.batches) == 0 {
		return &sqs.ReceiveMessageOutput{}, ctx.Err()
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return &sqs.ReceiveMessageOutput{Messages: batch}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	f.revived = append(f.revived, aws.ToString(params.ReceiptHandle))
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

func TestSQSSource(t *testing.T) {
	client := &fakeSQS{batches: [][]types.Message{
		{},
		{
			{Body: aws.String(`{"submission_id":1}`), ReceiptHandle: aws.String("h1")},
			{Body: aws.String(`{"submission_id":2}`), ReceiptHandle: aws.String("h2")},
		},
	}}
	src := queue.NewSQSSource(client, "https://sqs.example/requests")
	ctx := context.Background()

	first, err := src.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"submission_id":1}`, string(first.Body))

	second, err := src.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"submission_id":2}`, string(second.Body))

	require.NoError(t, first.Ack(ctx))
	require.NoError(t, second.Nack(ctx))
	assert.Equal(t, []string{"h1"}, client.deleted)
	assert.Equal(t, []string{"h2"}, client.revived)
}

func TestSQSSourceContextDone(t *testing.T) {
	src := queue.NewSQSSource(&fakeSQS{}, "q")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
