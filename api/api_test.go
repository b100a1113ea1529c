package api_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekshiva/codechecker/api"
	"github.com/seekshiva/codechecker/internal"
)

func TestTrimToRect(t *testing.T) {
	assert.Equal(t, "", api.TrimToRect("", 2, 3))
	assert.Equal(t, "ab\ncd", api.TrimToRect("ab\ncd", 2, 3))
	assert.Equal(t, "abc[...]\nd", api.TrimToRect("abcdef\nd", 2, 3))
	assert.Equal(t, "a\nb\n[...]", api.TrimToRect("a\nb\nc\nd", 2, 3))
}

func TestDecodeGradeReq(t *testing.T) {
	id := uuid.NewString()
	req, err := api.DecodeGradeReq([]byte(`{"eval_uuid":"` + id + `","submission_id":12}`))
	require.NoError(t, err)
	assert.Equal(t, id, req.EvalUuid)
	assert.Equal(t, int64(12), req.SubmissionID)

	req, err = api.DecodeGradeReq([]byte(`{"submission_id":3}`))
	require.NoError(t, err)
	_, err = uuid.Parse(req.EvalUuid)
	assert.NoError(t, err)

	for _, body := range []string{`{`, `{"submission_id":0}`, `{"submission_id":1,"eval_uuid":"nope"}`} {
		_, err := api.DecodeGradeReq([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestFinishTestMessage(t *testing.T) {
	run := &internal.RunData{ExitStatus: 0, WallMillis: 12, Stdout: []byte(strings.Repeat("x", 100))}
	b, err := json.Marshal(api.NewFinishTest("e", 5, internal.Passed, run))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "test_finish", got["msg_type"])
	assert.Equal(t, "PASSED", got["verdict"])
	subm := got["submission"].(map[string]any)
	assert.Equal(t, strings.Repeat("x", api.MaxRuntimeDataWidth)+"[...]", subm["out"])
}

func TestReachTestOmitsEmpty(t *testing.T) {
	msg := api.NewReachTest("e", 1, nil, []byte("3\n"))
	assert.Nil(t, msg.Input)
	require.NotNil(t, msg.Answer)
	assert.Equal(t, "3\n", *msg.Answer)
}
