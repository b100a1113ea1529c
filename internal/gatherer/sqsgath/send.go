package sqsgath

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/seekshiva/codechecker/api"
)

func (s *sqsResQueueGatherer) send(msgType api.MsgType, msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("failed to marshal message", "error", err)
		return
	}

	_, err = s.sqsClient.SendMessage(s.ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"msg_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(msgType)),
			},
		},
	})
	if err != nil {
		s.log.Error("failed to send message", "msg_type", msgType, "error", err)
	}
}
