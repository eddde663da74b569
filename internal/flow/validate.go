package flow

import (
	"fmt"
	"strings"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const (
	CodeMissingEntry    = "missing_entry"
	CodeMultipleEntry   = "multiple_entry"
	CodeMissingExit     = "missing_exit"
	CodeOrphanNode      = "orphan_node"
	CodeEmptyQuestion   = "empty_question"
	CodeBrokenReference = "broken_reference"
)

// Diagnostic is one structural finding. Errors block publication; warnings are advisory.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	NodeID   string   `json:"nodeId,omitempty"`
	EdgeID   string   `json:"edgeId,omitempty"`
	Message  string   `json:"message"`
}

// Validate checks the graph's structure. Rules run in a fixed order and every finding
// is reported.
func Validate(nodes []models.Node, edges []models.Edge) []Diagnostic {
	diags := []Diagnostic{}

	var entries, exits int
	for _, n := range nodes {
		switch n.Kind() {
		case models.NodeEntry:
			entries++
		case models.NodeExit:
			exits++
		}
	}

	switch {
	case entries == 0:
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Code:     CodeMissingEntry,
			Message:  "missing entry",
		})
	case entries > 1:
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Code:     CodeMultipleEntry,
			Message:  "multiple entry nodes",
		})
	}

	if exits == 0 {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Code:     CodeMissingExit,
			Message:  "missing exit",
		})
	}

	if len(nodes) > 1 {
		connected := make(map[string]bool, len(edges)*2)
		for _, e := range edges {
			connected[e.SourceNodeID] = true
			connected[e.TargetNodeID] = true
		}
		for _, n := range nodes {
			if !connected[n.ID] {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeOrphanNode,
					NodeID:   n.ID,
					Message:  fmt.Sprintf("node %q is not connected to any other node", n.ID),
				})
			}
		}
	}

	for _, n := range nodes {
		q := n.Question()
		if q == nil {
			continue
		}
		if strings.TrimSpace(q.Text) == "" {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeEmptyQuestion,
				NodeID:   n.ID,
				Message:  "question text is empty",
			})
		}
	}

	existing := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		existing[n.ID] = true
	}
	for _, n := range nodes {
		q := n.Question()
		if q == nil {
			continue
		}
		for _, missing := range FindBrokenReferences(q.Text, existing) {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeBrokenReference,
				NodeID:   n.ID,
				Message:  fmt.Sprintf("question references deleted node %q", missing),
			})
		}
	}

	return diags
}

// HasErrors reports whether any diagnostic blocks publication.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func Errors(diags []Diagnostic) []Diagnostic {
	return filterSeverity(diags, SeverityError)
}

func Warnings(diags []Diagnostic) []Diagnostic {
	return filterSeverity(diags, SeverityWarning)
}

func filterSeverity(diags []Diagnostic, s Severity) []Diagnostic {
	out := []Diagnostic{}
	for _, d := range diags {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}
