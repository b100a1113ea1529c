package api

import (
	"time"

	"github.com/seekshiva/codechecker/internal"
)

// MsgType is a message type for streaming responses
type MsgType string

// Streaming message type constants
const (
	StartJobMsg   MsgType = "job_start"
	ReachTestMsg  MsgType = "test_reach"
	FinishTestMsg MsgType = "test_finish"
	FinishJobMsg  MsgType = "job_finish"
)

// Header is the common header for all streaming response messages
type Header struct {
	EvalUuid string  `json:"eval_uuid"`
	MsgType  MsgType `json:"msg_type"`
}

// StartJob message sent when grading begins
type StartJob struct {
	Header
	SubmissionID int64  `json:"submission_id"`
	TestCount    int    `json:"test_count"`
	StartedTime  string `json:"started_time"`
}

// ReachTest message sent when a testcase is reached
type ReachTest struct {
	Header
	TestId int64   `json:"test_id"`
	Input  *string `json:"input"`
	Answer *string `json:"answer"`
}

// FinishTest message sent when a testcase has a verdict
type FinishTest struct {
	Header
	TestId     int64            `json:"test_id"`
	Verdict    internal.Verdict `json:"verdict"`
	Submission *RuntimeData     `json:"submission"`
}

// FinishJob message sent when grading completes or is aborted
type FinishJob struct {
	Header
	Result        internal.Verdict `json:"result"`
	ErrorMessage  *string          `json:"error_message"`
	InternalError bool             `json:"internal_error"`
}

func NewHeader(evalUuid string, msgType MsgType) Header {
	return Header{
		EvalUuid: evalUuid,
		MsgType:  msgType,
	}
}

func NewStartJob(evalUuid string, submissionId int64, testCount int) StartJob {
	return StartJob{
		Header:       NewHeader(evalUuid, StartJobMsg),
		SubmissionID: submissionId,
		TestCount:    testCount,
		StartedTime:  time.Now().Format(time.RFC3339),
	}
}

// NewReachTest trims input and answer; empty ones are sent as null.
func NewReachTest(evalUuid string, testId int64, input, answer []byte) ReachTest {
	return ReachTest{
		Header: NewHeader(evalUuid, ReachTestMsg),
		TestId: testId,
		Input:  trimmedPtr(input),
		Answer: trimmedPtr(answer),
	}
}

func NewFinishTest(evalUuid string, testId int64, verdict internal.Verdict, run *internal.RunData) FinishTest {
	return FinishTest{
		Header:     NewHeader(evalUuid, FinishTestMsg),
		TestId:     testId,
		Verdict:    verdict,
		Submission: NewRuntimeData(run),
	}
}

func NewFinishJob(evalUuid string, result internal.Verdict) FinishJob {
	return FinishJob{
		Header: NewHeader(evalUuid, FinishJobMsg),
		Result: result,
	}
}

func NewInternalErrorJob(evalUuid string, msg string) FinishJob {
	return FinishJob{
		Header:        NewHeader(evalUuid, FinishJobMsg),
		Result:        internal.InternalError,
		ErrorMessage:  &msg,
		InternalError: true,
	}
}
