package entity

import (
	"errors"
	"fmt"
)

var (
	ErrConstraintUnsatisfiable = errors.New("constraint unsatisfiable")
	ErrInvalidConfiguration    = errors.New("invalid configuration")
	ErrRenderFailure           = errors.New("render failure")
)

// GenerationError is a per-task failure. Kind is one of the sentinel errors
// above and is what errors.Is matches against.
type GenerationError struct {
	Kind   error
	TaskID string
	Msg    string
	Err    error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.TaskID != "" {
		msg = e.TaskID + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func InvalidConfigf(format string, args ...any) error {
	return &GenerationError{Kind: ErrInvalidConfiguration, Msg: fmt.Sprintf(format, args...)}
}

func Unsatisfiablef(format string, args ...any) error {
	return &GenerationError{Kind: ErrConstraintUnsatisfiable, Msg: fmt.Sprintf(format, args...)}
}

func RenderFailure(msg string, err error) error {
	return &GenerationError{Kind: ErrRenderFailure, Msg: msg, Err: err}
}

// WithTaskID attaches a task id to err, keeping its kind.
func WithTaskID(err error, taskID string) error {
	if err == nil {
		return nil
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		cp := *ge
		cp.TaskID = taskID
		return &cp
	}
	return &GenerationError{Kind: ErrRenderFailure, TaskID: taskID, Err: err}
}
