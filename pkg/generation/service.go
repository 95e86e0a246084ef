package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/weberc2/reels/pkg/observable"
)

const (
	FunctionImageToVideo = "imageToVideoFunc"
	FunctionGetTask      = "getTaskFunc"
	FunctionDeleteTask   = "deleteTaskFunc"
)

var (
	ErrInvalidTaskID     = errors.New("invalid task id received")
	ErrInvalidTaskStatus = errors.New("invalid task status received")
)

type TaskID string

// State is what a generation screen renders: whether a request is in
// flight and the most recent remote error.
type State struct {
	Loading bool
	Err     error
}

type Service struct {
	Functions Functions
	Logger    *slog.Logger
	IDFunc    func() string

	state *observable.Value[State]
}

func NewService(
	functions Functions,
	dispatcher observable.Dispatcher,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Functions: functions,
		Logger:    logger,
		IDFunc:    uuid.NewString,
		state:     observable.NewValue(dispatcher, State{}),
	}
}

func (s *Service) State() State { return s.state.Get() }

func (s *Service) Subscribe(fn func(State)) (cancel func()) {
	return s.state.Subscribe(fn)
}

// Generate submits a generation task and returns its ID.
func (s *Service) Generate(ctx context.Context, req Request) (TaskID, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	req = req.withDefaults()
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("generating video: %w", err)
	}

	requestID := s.IDFunc()
	s.Logger.Info(
		"submitting generation task",
		"requestID", requestID,
		"duration", req.Duration,
		"ratio", req.Ratio,
	)

	result, err := s.Functions.Call(ctx, FunctionImageToVideo, map[string]interface{}{
		"requestId":   requestID,
		"promptImage": req.PromptImage,
		"promptText":  req.PromptText,
		"watermark":   req.Watermark,
		"duration":    req.Duration,
		"ratio":       req.Ratio,
	})
	if err != nil {
		return "", s.fail(fmt.Errorf("generating video: %w", err))
	}

	var taskID string
	if err := json.Unmarshal(result, &taskID); err != nil || taskID == "" {
		return "", s.fail(fmt.Errorf("generating video: %w", ErrInvalidTaskID))
	}

	s.Logger.Info(
		"submitted generation task",
		"requestID", requestID,
		"taskID", taskID,
	)
	return TaskID(taskID), nil
}

// TaskStatus returns the backend's status document for a task.
func (s *Service) TaskStatus(
	ctx context.Context,
	id TaskID,
) (map[string]interface{}, error) {
	result, err := s.Functions.Call(ctx, FunctionGetTask, taskPayload(id))
	if err != nil {
		return nil, s.fail(fmt.Errorf("fetching task `%s`: %w", id, err))
	}

	var status map[string]interface{}
	if err := json.Unmarshal(result, &status); err != nil || status == nil {
		return nil, s.fail(fmt.Errorf(
			"fetching task `%s`: %w",
			id,
			ErrInvalidTaskStatus,
		))
	}
	return status, nil
}

func (s *Service) DeleteTask(ctx context.Context, id TaskID) error {
	if _, err := s.Functions.Call(ctx, FunctionDeleteTask, taskPayload(id)); err != nil {
		return s.fail(fmt.Errorf("deleting task `%s`: %w", id, err))
	}
	return nil
}

func (s *Service) setLoading(loading bool) {
	s.state.Update(func(state State) State {
		state.Loading = loading
		return state
	})
}

func (s *Service) fail(err error) error {
	s.Logger.Error("calling generation function", "err", err.Error())
	s.state.Update(func(state State) State {
		state.Err = err
		return state
	})
	return err
}

func taskPayload(id TaskID) map[string]string {
	return map[string]string{"taskId": string(id)}
}
