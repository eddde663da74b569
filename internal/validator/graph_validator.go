package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/errors"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// GraphValidator rejects graphs that cannot be stored: malformed payloads, duplicate or
// dangling ids and ambiguous default edges. Structural completeness (entry, exit,
// orphans) is checked at publish time by the flow package instead.
type GraphValidator struct {
	validate *validator.Validate
}

// NewGraphValidator creates a graph validator sharing the struct validator's custom tags
func NewGraphValidator(validate *validator.Validate) *GraphValidator {
	return &GraphValidator{validate: validate}
}

// Validate returns every problem found, or nil.
func (v *GraphValidator) Validate(nodes []models.Node, edges []models.Edge) ValidationErrors {
	var errs ValidationErrors

	byID := make(map[string]models.Node, len(nodes))
	for i, n := range nodes {
		field := fmt.Sprintf("nodes[%d]", i)

		if n.ID == "" {
			errs.Add(field+".id", "is required", "required", nil)
		} else if !validNodeID(n.ID) {
			errs.Add(field+".id", "must not contain ':', '{', '}' or surrounding spaces", "node_id", n.ID)
		} else if _, dup := byID[n.ID]; dup {
			errs.Add(field+".id", "must be unique", "unique", n.ID)
		} else {
			byID[n.ID] = n
		}

		if err := v.validate.Var(string(n.Kind()), "required,node_kind"); err != nil {
			errs.Add(field+".kind", "must be a valid node kind (entry, question, exit)", "node_kind", string(n.Kind()))
			continue
		}

		if err := v.validate.Struct(n.Payload); err != nil {
			for _, fe := range errors.ToValidationErrors(err) {
				fe.Field = field + ".payload." + fe.Field
				errs = append(errs, fe)
			}
		}

		if q := n.Question(); q != nil {
			v.validateQuestion(field+".payload", q, &errs)
		}
	}

	edgeIDs := make(map[string]bool, len(edges))
	defaults := make(map[string]string)
	for i, e := range edges {
		field := fmt.Sprintf("edges[%d]", i)

		if e.ID == "" {
			errs.Add(field+".id", "is required", "required", nil)
		} else if edgeIDs[e.ID] {
			errs.Add(field+".id", "must be unique", "unique", e.ID)
		} else {
			edgeIDs[e.ID] = true
		}

		source, ok := byID[e.SourceNodeID]
		if !ok {
			errs.Add(field+".sourceNodeId", "must reference an existing node", "node_ref", e.SourceNodeID)
		} else if source.Kind() == models.NodeExit {
			errs.Add(field+".sourceNodeId", "exit nodes cannot have outgoing edges", "exit_source", e.SourceNodeID)
		}
		if _, ok := byID[e.TargetNodeID]; !ok {
			errs.Add(field+".targetNodeId", "must reference an existing node", "node_ref", e.TargetNodeID)
		}

		if e.Condition == nil {
			if prev, dup := defaults[e.SourceNodeID]; dup {
				errs.Add(field, fmt.Sprintf("node %s already has a default edge (%s)", e.SourceNodeID, prev), "single_default", e.ID)
			} else {
				defaults[e.SourceNodeID] = e.ID
			}
			continue
		}

		if err := v.validate.Struct(e.Condition.Wire()); err != nil {
			for _, fe := range errors.ToValidationErrors(err) {
				fe.Field = field + ".condition." + fe.Field
				errs = append(errs, fe)
			}
		}
		if m, ok := e.Condition.Match.(models.ScalarCompare); ok && m.Comparator == "" {
			errs.Add(field+".condition.comparator", "is required", "required", nil)
		}
		if q := source.Question(); q != nil && len(q.Options) > 0 {
			for _, id := range conditionOptionIDs(*e.Condition) {
				if !q.HasOption(id) {
					errs.Add(field+".condition", fmt.Sprintf("option %q is not an option of node %s", id, source.ID), "option_ref", id)
				}
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *GraphValidator) validateQuestion(field string, q *models.QuestionPayload, errs *ValidationErrors) {
	if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
		errs.Add(field+".minValue", "must not exceed maxValue", "range", *q.MinValue)
	}
	if q.MinSelections != nil && q.MaxSelections != nil && *q.MinSelections > *q.MaxSelections {
		errs.Add(field+".minSelections", "must not exceed maxSelections", "range", *q.MinSelections)
	}

	if (q.QuestionKind.SingleSelect() && q.QuestionKind != models.QuestionYesNo) || q.QuestionKind.MultiSelect() {
		if len(q.Options) == 0 {
			errs.Add(field+".options", "must have at least one option", "required", nil)
		}
	}

	seen := make(map[string]bool, len(q.Options))
	for i, opt := range q.Options {
		if seen[opt.ID] {
			errs.Add(fmt.Sprintf("%s.options[%d].id", field, i), "must be unique", "unique", opt.ID)
		}
		seen[opt.ID] = true
	}
}

// validNodeID reports whether id can appear in a {{nodeId:label}} piping token and be
// parsed back unchanged.
func validNodeID(id string) bool {
	return !strings.ContainsAny(id, ":{}") && strings.TrimSpace(id) == id
}

func conditionOptionIDs(c models.Condition) []string {
	switch m := c.Match.(type) {
	case models.SingleOptionMatch:
		return []string{m.OptionID}
	case models.MultiOptionMatch:
		return m.OptionIDs
	}
	return nil
}
