package flow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// IDGenerator produces identifiers for sessions and completed responses.
type IDGenerator func() string

// UUIDGenerator returns random UUIDv4 strings.
func UUIDGenerator() IDGenerator {
	return uuid.NewString
}

// Step describes where a run is after an advance.
type Step struct {
	NodeID  string `json:"nodeId"`
	Done    bool   `json:"done"`
	DeadEnd bool   `json:"deadEnd"`
}

// Screen is a node prepared for display: piping tokens are resolved and the expected
// answer is stripped.
type Screen struct {
	NodeID   string                  `json:"nodeId"`
	Kind     models.NodeKind         `json:"kind"`
	Entry    *models.EntryPayload    `json:"entry,omitempty"`
	Question *models.QuestionPayload `json:"question,omitempty"`
	Exit     *models.ExitPayload     `json:"exit,omitempty"`
}

// StartRun positions a new run on the entry node.
func StartRun(g *Graph, sessionID string, assessmentID uint, now time.Time) (*models.Run, error) {
	entry, ok := g.Entry()
	if !ok {
		return nil, ErrNoEntry
	}
	return &models.Run{
		SessionID:      sessionID,
		AssessmentID:   assessmentID,
		CurrentNodeID:  entry.ID,
		Answers:        map[string]models.Value{},
		VisitedHistory: []string{entry.ID},
		StartedAt:      now,
	}, nil
}

// Advance records the answer for the current node and moves to the next one. nodeID may
// be empty to mean the current node. Entry nodes take no answer.
func Advance(g *Graph, run *models.Run, nodeID string, answer models.Value) (Step, error) {
	if run.Completed {
		return Step{}, ErrRunComplete
	}
	if nodeID != "" && nodeID != run.CurrentNodeID {
		return Step{}, fmt.Errorf("%w: expected %s, got %s", ErrNodeMismatch, run.CurrentNodeID, nodeID)
	}

	current, ok := g.Node(run.CurrentNodeID)
	if !ok {
		return Step{}, fmt.Errorf("%w: %s", ErrUnknownNode, run.CurrentNodeID)
	}

	switch current.Kind() {
	case models.NodeExit:
		return Step{}, ErrRunComplete
	case models.NodeEntry:
		answer = models.Value{}
	case models.NodeQuestion:
		if err := CheckAnswer(current.ID, current.Question(), answer); err != nil {
			return Step{}, err
		}
		if run.Answers == nil {
			run.Answers = map[string]models.Value{}
		}
		run.Answers[current.ID] = answer
	default:
		return Step{}, ErrNotAnswering
	}

	nextID, ok := NextNode(g, current.ID, answer)
	if !ok {
		run.Completed = true
		return Step{NodeID: current.ID, Done: true, DeadEnd: true}, nil
	}

	next, ok := g.Node(nextID)
	if !ok {
		return Step{}, fmt.Errorf("%w: %s", ErrUnknownNode, nextID)
	}

	run.CurrentNodeID = next.ID
	run.VisitedHistory = append(run.VisitedHistory, next.ID)
	if next.Kind() == models.NodeExit {
		run.Completed = true
		return Step{NodeID: next.ID, Done: true}, nil
	}
	return Step{NodeID: next.ID}, nil
}

// Back returns to the previously visited node. Recorded answers are kept so the
// respondent sees them again.
func Back(run *models.Run) error {
	if run.Completed {
		return ErrRunComplete
	}
	if len(run.VisitedHistory) < 2 {
		return ErrNoHistory
	}
	run.VisitedHistory = run.VisitedHistory[:len(run.VisitedHistory)-1]
	run.CurrentNodeID = run.VisitedHistory[len(run.VisitedHistory)-1]
	return nil
}

// Render prepares nodeID for display using the run's answers so far.
func Render(g *Graph, nodeID string, answers map[string]models.Value) (Screen, error) {
	node, ok := g.Node(nodeID)
	if !ok {
		return Screen{}, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}

	screen := Screen{NodeID: node.ID, Kind: node.Kind()}
	switch node.Kind() {
	case models.NodeEntry:
		screen.Entry = node.Entry()
	case models.NodeExit:
		screen.Exit = node.Exit()
	case models.NodeQuestion:
		q := *node.Question()
		q.Text = ResolveForDisplay(q.Text, answers)
		q.Description = ResolveForDisplay(q.Description, answers)
		q.CorrectAnswer = nil
		screen.Question = &q
	}
	return screen, nil
}

// Complete converts a finished run into a CompletedResponse. Only answers on the visited
// path are kept, in visit order, each with its question text rendered as the respondent
// saw it. Score and MaxScore are set only when the path carried points.
func Complete(g *Graph, run *models.Run, newID IDGenerator, submittedAt time.Time, metadata map[string]any) models.CompletedResponse {
	answers := make(models.AnswerList, 0, len(run.Answers))
	seen := make(map[string]bool, len(run.VisitedHistory))
	for _, id := range run.VisitedHistory {
		if seen[id] {
			continue
		}
		seen[id] = true

		v, ok := run.Answers[id]
		if !ok {
			continue
		}
		node, ok := g.Node(id)
		if !ok || node.Question() == nil {
			continue
		}
		answers = append(answers, models.Answer{
			NodeID:       id,
			QuestionText: ResolveForDisplay(node.Question().Text, run.Answers),
			Value:        v,
		})
	}

	meta := map[string]any{}
	for k, v := range metadata {
		meta[k] = v
	}
	meta["path"] = append([]string(nil), run.VisitedHistory...)
	meta["graphVersion"] = run.GraphVersion

	resp := models.CompletedResponse{
		ID:           newID(),
		AssessmentID: run.AssessmentID,
		Answers:      answers,
		StartedAt:    run.StartedAt,
		SubmittedAt:  submittedAt,
		Metadata:     meta,
	}

	result := Score(answers, g.NodesByID())
	if result.MaxScore > 0 {
		resp.Score = &result.Score
		resp.MaxScore = &result.MaxScore
	}
	return resp
}
