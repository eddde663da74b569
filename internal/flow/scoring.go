package flow

import (
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// Result is the outcome of scoring a completed run.
type Result struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
}

// Score totals the points earned by answers. Every answered node that declares points
// adds them to MaxScore, including nodes without a correct answer, which can never be
// earned. Answers for unknown nodes are skipped.
func Score(answers []models.Answer, nodesByID map[string]models.Node) Result {
	var res Result
	for _, a := range answers {
		node, ok := nodesByID[a.NodeID]
		if !ok {
			continue
		}
		q := node.Question()
		if q == nil || q.Points == nil {
			continue
		}

		points := *q.Points
		res.MaxScore += points

		if q.CorrectAnswer != nil && IsCorrect(*q.CorrectAnswer, a.Value) {
			res.Score += points
		}
	}
	return res
}

// IsCorrect compares an answer with the expected one. A list expectation needs the exact
// same set of selections; partial selections earn nothing. A scalar expectation is
// compared in string form, so 42 and "42" are equal.
func IsCorrect(expected, answer models.Value) bool {
	if expected.IsList() {
		want := expected.Strings()
		got := answer.Strings()
		if len(got) != len(want) {
			return false
		}
		wantSet := toSet(want)
		for _, g := range got {
			if !wantSet[g] {
				return false
			}
		}
		return true
	}

	if answer.IsList() {
		got := answer.Strings()
		return len(got) == 1 && got[0] == expected.String()
	}
	return answer.String() == expected.String()
}
