package api

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// GradeReq asks a worker to grade a stored submission. The submission row
// names the executable and the problem; testcases are loaded from storage.
type GradeReq struct {
	EvalUuid     string `json:"eval_uuid"`
	SubmissionID int64  `json:"submission_id"`

	// Where to stream progress events. Empty means the worker default.
	ResSubject string `json:"res_subject,omitempty"`
	ResSqsUrl  string `json:"res_sqs_url,omitempty"`
}

func NewGradeReq(submissionId int64) GradeReq {
	return GradeReq{
		EvalUuid:     uuid.NewString(),
		SubmissionID: submissionId,
	}
}

// DecodeGradeReq parses a queue message body. A request without an eval
// uuid is given a fresh one.
func DecodeGradeReq(body []byte) (GradeReq, error) {
	var req GradeReq
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("failed to unmarshal grade request: %w", err)
	}
	if req.SubmissionID <= 0 {
		return req, fmt.Errorf("grade request has invalid submission id %d", req.SubmissionID)
	}
	if req.EvalUuid == "" {
		req.EvalUuid = uuid.NewString()
	} else if _, err := uuid.Parse(req.EvalUuid); err != nil {
		return req, fmt.Errorf("grade request has invalid eval uuid: %w", err)
	}
	return req, nil
}
