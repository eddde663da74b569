package flow

import (
	"regexp"
	"strings"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// referencePattern matches {{nodeId:label}}. Node ids may not contain ':' or '}'.
var referencePattern = regexp.MustCompile(`\{\{\s*([^:{}]+?)\s*:([^{}]*)\}\}`)

// Reference is one piping token found in question text. Start and End are byte offsets
// of the whole token.
type Reference struct {
	NodeID string
	Label  string
	Start  int
	End    int
}

// ParseReferences returns every piping token in text, in order.
func ParseReferences(text string) []Reference {
	matches := referencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Reference{
			NodeID: text[m[2]:m[3]],
			Label:  strings.TrimSpace(text[m[4]:m[5]]),
			Start:  m[0],
			End:    m[1],
		})
	}
	return refs
}

// ResolveForDisplay replaces each token with the recorded answer for its node. Tokens
// whose node has no recorded answer render as their label.
func ResolveForDisplay(text string, answers map[string]models.Value) string {
	refs := ParseReferences(text)
	if len(refs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, ref := range refs {
		b.WriteString(text[last:ref.Start])
		if v, ok := answers[ref.NodeID]; ok && !v.IsEmpty() {
			b.WriteString(v.String())
		} else {
			b.WriteString(ref.Label)
		}
		last = ref.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// FindBrokenReferences returns the referenced node ids missing from existing, each once,
// in order of first appearance.
func FindBrokenReferences(text string, existing map[string]bool) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, ref := range ParseReferences(text) {
		if existing[ref.NodeID] || seen[ref.NodeID] {
			continue
		}
		seen[ref.NodeID] = true
		missing = append(missing, ref.NodeID)
	}
	return missing
}
