package flow

import (
	"errors"
	"testing"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedID(id string) IDGenerator {
	return func() string { return id }
}

func TestRun_FollowsBranch(t *testing.T) {
	g := yesNoGraph()

	run, err := StartRun(g, "s1", 7, testStart)
	require.NoError(t, err)
	assert.Equal(t, "entry", run.CurrentNodeID)
	assert.Equal(t, []string{"entry"}, run.VisitedHistory)

	step, err := Advance(g, run, "entry", models.Value{})
	require.NoError(t, err)
	assert.Equal(t, Step{NodeID: "q1"}, step)

	step, err = Advance(g, run, "q1", models.Scalar("Yes"))
	require.NoError(t, err)
	assert.Equal(t, "a", step.NodeID)

	screen, err := Render(g, run.CurrentNodeID, run.Answers)
	require.NoError(t, err)
	assert.Equal(t, "Why Yes?", screen.Question.Text)

	step, err = Advance(g, run, "", models.Scalar("Because"))
	require.NoError(t, err)
	assert.Equal(t, Step{NodeID: "end", Done: true}, step)
	assert.True(t, run.Completed)
	assert.Equal(t, []string{"entry", "q1", "a", "end"}, run.VisitedHistory)

	_, err = Advance(g, run, "", models.Scalar("again"))
	assert.ErrorIs(t, err, ErrRunComplete)
}

func TestRun_StartWithoutEntry(t *testing.T) {
	g := NewGraph([]models.Node{exitNode("end")}, nil)
	_, err := StartRun(g, "s1", 1, testStart)
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestRun_RejectsAnswerForOtherNode(t *testing.T) {
	g := yesNoGraph()
	run, _ := StartRun(g, "s1", 1, testStart)

	_, err := Advance(g, run, "q1", models.Scalar("Yes"))
	assert.ErrorIs(t, err, ErrNodeMismatch)
	assert.Equal(t, "entry", run.CurrentNodeID)
}

func TestRun_InvalidAnswerDoesNotMove(t *testing.T) {
	g := yesNoGraph()
	run, _ := StartRun(g, "s1", 1, testStart)
	_, _ = Advance(g, run, "", models.Value{})

	_, err := Advance(g, run, "q1", models.Scalar("Maybe"))

	var answerErr *AnswerError
	require.True(t, errors.As(err, &answerErr))
	assert.Equal(t, "q1", answerErr.NodeID)
	assert.Equal(t, "q1", run.CurrentNodeID)
	assert.NotContains(t, run.Answers, "q1")
}

func TestRun_DeadEndCompletesRun(t *testing.T) {
	g := NewGraph(
		[]models.Node{
			entryNode("entry"),
			questionNode("q", "Pick", models.QuestionDropdown, "A", "B"),
			exitNode("end"),
		},
		[]models.Edge{
			edge("e0", "entry", "q"),
			condEdge("e1", "q", "end", models.NewSingleOption("A")),
		},
	)
	run, _ := StartRun(g, "s1", 1, testStart)
	_, _ = Advance(g, run, "", models.Value{})

	step, err := Advance(g, run, "q", models.Scalar("B"))
	require.NoError(t, err)
	assert.Equal(t, Step{NodeID: "q", Done: true, DeadEnd: true}, step)
	assert.True(t, run.Completed)
	assert.Equal(t, models.Scalar("B"), run.Answers["q"])
}

func TestRun_BackKeepsAnswers(t *testing.T) {
	g := yesNoGraph()
	run, _ := StartRun(g, "s1", 1, testStart)

	assert.ErrorIs(t, Back(run), ErrNoHistory)

	_, _ = Advance(g, run, "", models.Value{})
	_, _ = Advance(g, run, "q1", models.Scalar("Yes"))
	require.Equal(t, "a", run.CurrentNodeID)

	require.NoError(t, Back(run))
	assert.Equal(t, "q1", run.CurrentNodeID)
	assert.Equal(t, []string{"entry", "q1"}, run.VisitedHistory)
	assert.Equal(t, models.Scalar("Yes"), run.Answers["q1"])

	step, err := Advance(g, run, "q1", models.Scalar("No"))
	require.NoError(t, err)
	assert.Equal(t, "b", step.NodeID)
}

func TestComplete_KeepsOnlyVisitedAnswers(t *testing.T) {
	g := yesNoGraph()
	run, _ := StartRun(g, "s1", 9, testStart)
	run.GraphVersion = 3
	_, _ = Advance(g, run, "", models.Value{})
	_, _ = Advance(g, run, "q1", models.Scalar("Yes"))
	_, _ = Advance(g, run, "a", models.Scalar("It is good"))

	// Go back and take the other branch; the answer for "a" stays recorded but is off-path.
	run.Completed = false
	run.VisitedHistory = []string{"entry", "q1"}
	run.CurrentNodeID = "q1"
	_, _ = Advance(g, run, "q1", models.Scalar("No"))
	_, _ = Advance(g, run, "b", models.Scalar("Too long"))
	require.True(t, run.Completed)

	submitted := testStart.Add(90 * time.Second)
	resp := Complete(g, run, fixedID("r-1"), submitted, map[string]any{"source": "link"})

	assert.Equal(t, "r-1", resp.ID)
	assert.Equal(t, uint(9), resp.AssessmentID)
	assert.Equal(t, testStart, resp.StartedAt)
	assert.Equal(t, submitted, resp.SubmittedAt)
	assert.Equal(t, 90*time.Second, resp.Elapsed())

	require.Len(t, resp.Answers, 2)
	assert.Equal(t, "q1", resp.Answers[0].NodeID)
	assert.Equal(t, "Do you agree?", resp.Answers[0].QuestionText)
	assert.Equal(t, "b", resp.Answers[1].NodeID)
	assert.Equal(t, models.Scalar("Too long"), resp.Answers[1].Value)

	assert.Nil(t, resp.Score)
	assert.Nil(t, resp.MaxScore)
	assert.Equal(t, "link", resp.Metadata["source"])
	assert.Equal(t, []string{"entry", "q1", "b", "end"}, resp.Metadata["path"])
	assert.Equal(t, 3, resp.Metadata["graphVersion"])
}

func TestComplete_ScoresPath(t *testing.T) {
	g := NewGraph(
		[]models.Node{entryNode("entry"), scoredNode("q1", 10, models.Scalar("A")), exitNode("end")},
		[]models.Edge{edge("e0", "entry", "q1"), edge("e1", "q1", "end")},
	)
	run, _ := StartRun(g, "s1", 1, testStart)
	_, _ = Advance(g, run, "", models.Value{})
	_, err := Advance(g, run, "q1", models.Scalar("A"))
	require.NoError(t, err)

	resp := Complete(g, run, fixedID("r"), testStart.Add(time.Minute), nil)

	require.NotNil(t, resp.Score)
	assert.Equal(t, 10.0, *resp.Score)
	assert.Equal(t, 10.0, *resp.MaxScore)
}

func TestRender_StripsCorrectAnswer(t *testing.T) {
	g := NewGraph([]models.Node{scoredNode("q1", 1, models.Scalar("secret"))}, nil)

	screen, err := Render(g, "q1", nil)
	require.NoError(t, err)
	assert.Equal(t, models.NodeQuestion, screen.Kind)
	assert.Nil(t, screen.Question.CorrectAnswer)

	node, _ := g.Node("q1")
	assert.NotNil(t, node.Question().CorrectAnswer, "graph is not mutated")

	_, err = Render(g, "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownNode)
}
