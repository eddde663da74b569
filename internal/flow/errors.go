package flow

import (
	"errors"
	"fmt"
)

var (
	ErrNoEntry      = errors.New("flow has no entry node")
	ErrDeadEnd      = errors.New("no outgoing edge matched and no default edge exists")
	ErrRunComplete  = errors.New("run is already complete")
	ErrNotAnswering = errors.New("current node does not accept an answer")
	ErrNodeMismatch = errors.New("answer is not for the current node")
	ErrNoHistory    = errors.New("no previous node to return to")
	ErrUnknownNode  = errors.New("node not found in graph")
)

// AnswerError is returned when an answer fails the question's own constraints.
type AnswerError struct {
	NodeID string
	Reason string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("invalid answer for %s: %s", e.NodeID, e.Reason)
}
