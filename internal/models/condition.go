package models

import (
	"encoding/json"
)

type Comparator string

const (
	CompareEquals      Comparator = "equals"
	CompareNotEquals   Comparator = "not_equals"
	CompareContains    Comparator = "contains"
	CompareGreaterThan Comparator = "greater_than"
	CompareLessThan    Comparator = "less_than"
)

type MatchMode string

const (
	MatchAny     MatchMode = "any"
	MatchAll     MatchMode = "all"
	MatchExactly MatchMode = "exactly"
)

// Matcher is one of SingleOptionMatch, MultiOptionMatch or ScalarCompare.
type Matcher interface {
	isMatcher()
}

// SingleOptionMatch routes on the single selected option id.
type SingleOptionMatch struct {
	OptionID string
}

// MultiOptionMatch routes on the set of selected option ids.
type MultiOptionMatch struct {
	OptionIDs []string
	Mode      MatchMode
}

// ScalarCompare routes on the free-form answer value. A list operand matches when any
// element matches.
type ScalarCompare struct {
	Comparator Comparator
	Operand    Value
}

func (SingleOptionMatch) isMatcher() {}
func (MultiOptionMatch) isMatcher()  {}
func (ScalarCompare) isMatcher()     {}

// EffectiveMode returns the match mode, defaulting to any.
func (m MultiOptionMatch) EffectiveMode() MatchMode {
	if m.Mode == "" {
		return MatchAny
	}
	return m.Mode
}

// Condition guards an edge.
type Condition struct {
	Match Matcher
}

func NewSingleOption(optionID string) *Condition {
	return &Condition{Match: SingleOptionMatch{OptionID: optionID}}
}

func NewMultiOption(mode MatchMode, optionIDs ...string) *Condition {
	return &Condition{Match: MultiOptionMatch{OptionIDs: optionIDs, Mode: mode}}
}

func NewScalarCompare(comparator Comparator, operand Value) *Condition {
	return &Condition{Match: ScalarCompare{Comparator: comparator, Operand: operand}}
}

// ConditionWire is the flat shape the authoring surface sends and stores.
type ConditionWire struct {
	Comparator Comparator `json:"comparator,omitempty" validate:"omitempty,comparator"`
	Operand    *Value     `json:"operand,omitempty"`
	OptionID   string     `json:"optionId,omitempty"`
	OptionIDs  []string   `json:"optionIds,omitempty"`
	MatchMode  MatchMode  `json:"matchMode,omitempty" validate:"omitempty,match_mode"`
}

// Wire flattens the condition back to its stored shape.
func (c Condition) Wire() ConditionWire {
	switch m := c.Match.(type) {
	case MultiOptionMatch:
		return ConditionWire{Comparator: CompareEquals, OptionIDs: m.OptionIDs, MatchMode: m.Mode}
	case SingleOptionMatch:
		return ConditionWire{Comparator: CompareEquals, OptionID: m.OptionID}
	case ScalarCompare:
		operand := m.Operand
		return ConditionWire{Comparator: m.Comparator, Operand: &operand}
	}
	return ConditionWire{}
}

// FromWire picks the variant: non-empty optionIds first, then optionId, then a scalar
// comparison.
func FromWire(w ConditionWire) Condition {
	switch {
	case len(w.OptionIDs) > 0:
		return Condition{Match: MultiOptionMatch{OptionIDs: w.OptionIDs, Mode: w.MatchMode}}
	case w.OptionID != "":
		return Condition{Match: SingleOptionMatch{OptionID: w.OptionID}}
	default:
		var operand Value
		if w.Operand != nil {
			operand = *w.Operand
		}
		return Condition{Match: ScalarCompare{Comparator: w.Comparator, Operand: operand}}
	}
}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Wire())
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var w ConditionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = FromWire(w)
	return nil
}
