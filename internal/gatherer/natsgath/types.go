package natsgath

import (
	"log/slog"

	"github.com/seekshiva/codechecker/api"
	"github.com/seekshiva/codechecker/internal"
)

type natsGatherer struct {
	nc       Publisher
	subject  string
	evalUuid string
	log      *slog.Logger
}

func (s *natsGatherer) StartJob(submissionId int64, testCount int) {
	s.send(api.NewStartJob(s.evalUuid, submissionId, testCount))
}

func (s *natsGatherer) ReachTest(testcaseId int64, input []byte, answer []byte) {
	s.send(api.NewReachTest(s.evalUuid, testcaseId, input, answer))
}

func (s *natsGatherer) FinishTest(testcaseId int64, verdict internal.Verdict, run *internal.RunData) {
	s.send(api.NewFinishTest(s.evalUuid, testcaseId, verdict, run))
}

func (s *natsGatherer) InternalError(msg string) {
	s.send(api.NewInternalErrorJob(s.evalUuid, msg))
}

func (s *natsGatherer) FinishNoError(result internal.Verdict) {
	s.send(api.NewFinishJob(s.evalUuid, result))
}
