package generation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/weberc2/reels/pkg/testsupport"
)

func testService(functions *testsupport.FunctionsFake) *Service {
	s := NewService(functions, nil, nil)
	s.IDFunc = func() string { return "request-1" }
	return s
}

func TestGenerate(t *testing.T) {
	functions := &testsupport.FunctionsFake{Results: map[string]json.RawMessage{
		FunctionImageToVideo: json.RawMessage(`"task-123"`),
	}}
	s := testService(functions)

	var loading []bool
	s.Subscribe(func(state State) { loading = append(loading, state.Loading) })

	id, err := s.Generate(context.Background(), Request{
		PromptImage: "https://example.com/cat.png",
		PromptText:  "a cat surfing",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id != "task-123" {
		t.Fatalf("wanted `task-123`; found `%s`", id)
	}

	if len(loading) != 2 || !loading[0] || loading[1] {
		t.Fatalf("wanted loading `[true false]`; found `%v`", loading)
	}

	calls := functions.Calls()
	if len(calls) != 1 || calls[0].Name != FunctionImageToVideo {
		t.Fatalf("wanted one call to `%s`; found `%v`", FunctionImageToVideo, calls)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(calls[0].Payload, &payload); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for key, wanted := range map[string]interface{}{
		"requestId":   "request-1",
		"promptImage": "https://example.com/cat.png",
		"promptText":  "a cat surfing",
		"watermark":   false,
		"duration":    float64(DefaultDuration),
		"ratio":       DefaultRatio,
	} {
		if payload[key] != wanted {
			t.Fatalf("payload[%s]: wanted `%v`; found `%v`", key, wanted, payload[key])
		}
	}
}

func TestGenerateRejectsInvalidRequestsWithoutCalling(t *testing.T) {
	functions := &testsupport.FunctionsFake{}
	s := testService(functions)

	_, err := s.Generate(context.Background(), Request{Duration: 6})
	var e *InvalidDurationErr
	if !errors.As(err, &e) {
		t.Fatalf("wanted `*InvalidDurationErr`; found `%T`: %v", err, err)
	}
	if calls := functions.Calls(); len(calls) != 0 {
		t.Fatalf("wanted no calls; found `%v`", calls)
	}
	if state := s.State(); state.Loading || state.Err != nil {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestGenerateInvalidTaskID(t *testing.T) {
	for _, result := range []string{`{"id": 1}`, `""`, `null`} {
		functions := &testsupport.FunctionsFake{Results: map[string]json.RawMessage{
			FunctionImageToVideo: json.RawMessage(result),
		}}
		s := testService(functions)

		_, err := s.Generate(context.Background(), Request{})
		if !errors.Is(err, ErrInvalidTaskID) {
			t.Fatalf("result %s: wanted `ErrInvalidTaskID`; found `%v`", result, err)
		}
		if state := s.State(); !errors.Is(state.Err, ErrInvalidTaskID) {
			t.Fatalf("result %s: wanted recorded error; found `%v`", result, state.Err)
		}
	}
}

func TestTaskStatus(t *testing.T) {
	functions := &testsupport.FunctionsFake{Results: map[string]json.RawMessage{
		FunctionGetTask: json.RawMessage(`{"status": "RUNNING", "progress": 0.5}`),
	}}
	s := testService(functions)

	status, err := s.TaskStatus(context.Background(), "task-123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if status["status"] != "RUNNING" {
		t.Fatalf("wanted `RUNNING`; found `%v`", status["status"])
	}

	calls := functions.Calls()
	if string(calls[0].Payload) != `{"taskId":"task-123"}` {
		t.Fatalf("wanted `{\"taskId\":\"task-123\"}`; found `%s`", calls[0].Payload)
	}

	functions.Results[FunctionGetTask] = json.RawMessage(`"done"`)
	if _, err := s.TaskStatus(context.Background(), "task-123"); !errors.Is(err, ErrInvalidTaskStatus) {
		t.Fatalf("wanted `ErrInvalidTaskStatus`; found `%v`", err)
	}
}

func TestDeleteTask(t *testing.T) {
	boom := errors.New("boom")
	functions := &testsupport.FunctionsFake{Errs: map[string]error{
		FunctionDeleteTask: boom,
	}}
	s := testService(functions)

	if err := s.DeleteTask(context.Background(), "task-123"); !errors.Is(err, boom) {
		t.Fatalf("wanted `boom`; found `%v`", err)
	}
	if state := s.State(); !errors.Is(state.Err, boom) {
		t.Fatalf("wanted recorded `boom`; found `%v`", state.Err)
	}

	delete(functions.Errs, FunctionDeleteTask)
	if err := s.DeleteTask(context.Background(), "task-123"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
