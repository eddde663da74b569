package flow

import (
	"strings"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// NextNode picks the node that follows fromNodeID given the answer recorded there.
// Conditional edges are tried in authoring order and the first match wins; otherwise the
// default edge is taken. ok is false when neither exists.
func NextNode(g *Graph, fromNodeID string, answer models.Value) (nodeID string, ok bool) {
	var fallback *models.Edge
	for _, e := range g.Outgoing(fromNodeID) {
		if e.Condition == nil {
			if fallback == nil {
				edge := e
				fallback = &edge
			}
			continue
		}
		if Matches(*e.Condition, answer) {
			return e.TargetNodeID, true
		}
	}
	if fallback != nil {
		return fallback.TargetNodeID, true
	}
	return "", false
}

// Matches evaluates a condition against an answer. It never panics; mismatched types
// evaluate to false.
func Matches(cond models.Condition, answer models.Value) bool {
	switch m := cond.Match.(type) {
	case models.MultiOptionMatch:
		return matchMultiOption(m, answer)
	case models.SingleOptionMatch:
		return matchSingleOption(m, answer)
	case models.ScalarCompare:
		return matchScalar(m, answer)
	}
	return false
}

func matchMultiOption(m models.MultiOptionMatch, answer models.Value) bool {
	selected := toSet(answer.Strings())
	wanted := toSet(m.OptionIDs)

	common := 0
	for id := range wanted {
		if selected[id] {
			common++
		}
	}

	switch m.EffectiveMode() {
	case models.MatchAny:
		return common > 0
	case models.MatchAll:
		return common == len(wanted)
	case models.MatchExactly:
		return common == len(wanted) && len(selected) == len(wanted)
	}
	return false
}

func matchSingleOption(m models.SingleOptionMatch, answer models.Value) bool {
	if answer.IsList() || answer.IsEmpty() {
		return false
	}
	return answer.String() == m.OptionID
}

func matchScalar(m models.ScalarCompare, answer models.Value) bool {
	operands := []models.Value{m.Operand}
	if m.Operand.IsList() {
		operands = operands[:0]
		for _, item := range m.Operand.Items() {
			operands = append(operands, models.Scalar(item))
		}
	}

	for _, op := range operands {
		if compare(m.Comparator, answer, op) {
			return true
		}
	}
	return false
}

func compare(c models.Comparator, answer, operand models.Value) bool {
	switch c {
	case models.CompareEquals:
		return coerceString(answer) == coerceString(operand)
	case models.CompareNotEquals:
		return coerceString(answer) != coerceString(operand)
	case models.CompareContains:
		return strings.Contains(coerceString(answer), coerceString(operand))
	case models.CompareGreaterThan, models.CompareLessThan:
		a, ok := answer.Float()
		if !ok {
			return false
		}
		b, ok := operand.Float()
		if !ok {
			return false
		}
		if c == models.CompareGreaterThan {
			return a > b
		}
		return a < b
	}
	return false
}

// coerceString joins list answers with "," so a comparison sees the same text a
// respondent's selection would produce when concatenated.
func coerceString(v models.Value) string {
	if v.IsList() {
		return strings.Join(v.Strings(), ",")
	}
	return v.String()
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
