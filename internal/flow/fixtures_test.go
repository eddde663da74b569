package flow

import (
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

func entryNode(id string) models.Node {
	return models.Node{ID: id, Payload: models.EntryPayload{Title: "Welcome", ButtonLabel: "Start"}}
}

func exitNode(id string) models.Node {
	return models.Node{ID: id, Payload: models.ExitPayload{Title: "Thanks", ShowScore: true}}
}

func questionNode(id, text string, kind models.QuestionKind, options ...string) models.Node {
	q := models.QuestionPayload{QuestionKind: kind, Text: text}
	for _, opt := range options {
		q.Options = append(q.Options, models.Option{ID: opt, Text: opt})
	}
	return models.Node{ID: id, Payload: q}
}

func scoredNode(id string, points float64, correct models.Value) models.Node {
	return models.Node{ID: id, Payload: models.QuestionPayload{
		QuestionKind:  models.QuestionShortText,
		Text:          "Question " + id,
		Points:        &points,
		CorrectAnswer: &correct,
	}}
}

func edge(id, from, to string) models.Edge {
	return models.Edge{ID: id, SourceNodeID: from, TargetNodeID: to}
}

func condEdge(id, from, to string, cond *models.Condition) models.Edge {
	return models.Edge{ID: id, SourceNodeID: from, TargetNodeID: to, Condition: cond}
}

// yesNoGraph: entry -> q1 (Yes -> a, No -> b), a -> exit, b -> exit.
func yesNoGraph() *Graph {
	return NewGraph(
		[]models.Node{
			entryNode("entry"),
			questionNode("q1", "Do you agree?", models.QuestionMultipleChoice, "Yes", "No"),
			questionNode("a", "Why {{q1:your answer}}?", models.QuestionShortText),
			questionNode("b", "Why not?", models.QuestionShortText),
			exitNode("end"),
		},
		[]models.Edge{
			edge("e0", "entry", "q1"),
			condEdge("e1", "q1", "a", models.NewSingleOption("Yes")),
			condEdge("e2", "q1", "b", models.NewSingleOption("No")),
			edge("e3", "a", "end"),
			edge("e4", "b", "end"),
		},
	)
}
