package sqsgath

import (
	"context"
	"log/slog"

	"github.com/seekshiva/codechecker/api"
	"github.com/seekshiva/codechecker/internal"
)

type sqsResQueueGatherer struct {
	ctx       context.Context
	sqsClient Sender
	queueUrl  string
	evalUuid  string
	log       *slog.Logger
}

func (s *sqsResQueueGatherer) StartJob(submissionId int64, testCount int) {
	s.send(api.StartJobMsg, api.NewStartJob(s.evalUuid, submissionId, testCount))
}

func (s *sqsResQueueGatherer) ReachTest(testcaseId int64, input []byte, answer []byte) {
	s.send(api.ReachTestMsg, api.NewReachTest(s.evalUuid, testcaseId, input, answer))
}

func (s *sqsResQueueGatherer) FinishTest(testcaseId int64, verdict internal.Verdict, run *internal.RunData) {
	s.send(api.FinishTestMsg, api.NewFinishTest(s.evalUuid, testcaseId, verdict, run))
}

func (s *sqsResQueueGatherer) InternalError(msg string) {
	s.send(api.FinishJobMsg, api.NewInternalErrorJob(s.evalUuid, msg))
}

func (s *sqsResQueueGatherer) FinishNoError(result internal.Verdict) {
	s.send(api.FinishJobMsg, api.NewFinishJob(s.evalUuid, result))
}
