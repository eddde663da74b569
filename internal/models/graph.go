package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

type NodeKind string

const (
	NodeEntry    NodeKind = "entry"
	NodeQuestion NodeKind = "question"
	NodeExit     NodeKind = "exit"
)

type QuestionKind string

const (
	QuestionShortText      QuestionKind = "short_text"
	QuestionLongText       QuestionKind = "long_text"
	QuestionMultipleChoice QuestionKind = "multiple_choice"
	QuestionCheckbox       QuestionKind = "checkbox"
	QuestionDropdown       QuestionKind = "dropdown"
	QuestionRating         QuestionKind = "rating"
	QuestionScale          QuestionKind = "scale"
	QuestionNumber         QuestionKind = "number"
	QuestionEmail          QuestionKind = "email"
	QuestionDate           QuestionKind = "date"
	QuestionYesNo          QuestionKind = "yes_no"
)

// MultiSelect reports whether answers to this kind are lists of option ids.
func (k QuestionKind) MultiSelect() bool {
	return k == QuestionCheckbox
}

// SingleSelect reports whether answers to this kind are a single option id.
func (k QuestionKind) SingleSelect() bool {
	return k == QuestionMultipleChoice || k == QuestionDropdown || k == QuestionYesNo
}

// Payload is the kind-specific content of a node. Implemented by EntryPayload,
// QuestionPayload and ExitPayload only.
type Payload interface {
	Kind() NodeKind
	isPayload()
}

type EntryPayload struct {
	Title       string `json:"title" validate:"max=300"`
	Description string `json:"description" validate:"max=5000"`
	ButtonLabel string `json:"buttonLabel" validate:"max=100"`
}

type Option struct {
	ID     string   `json:"id" validate:"required,max=100"`
	Text   string   `json:"text" validate:"max=1000"`
	Points *float64 `json:"points,omitempty"`
}

type QuestionPayload struct {
	QuestionKind    QuestionKind `json:"questionKind" validate:"required,question_kind"`
	Text            string       `json:"text" validate:"max=5000"`
	Description     string       `json:"description,omitempty" validate:"max=5000"`
	Required        bool         `json:"required"`
	Options         []Option     `json:"options,omitempty" validate:"dive"`
	EnableBranching bool         `json:"enableBranching,omitempty"`
	MinValue        *float64     `json:"minValue,omitempty"`
	MaxValue        *float64     `json:"maxValue,omitempty"`
	MinLabel        string       `json:"minLabel,omitempty"`
	MaxLabel        string       `json:"maxLabel,omitempty"`
	Placeholder     string       `json:"placeholder,omitempty"`
	MaxLength       *int         `json:"maxLength,omitempty" validate:"omitempty,min=1"`
	MinSelections   *int         `json:"minSelections,omitempty" validate:"omitempty,min=0"`
	MaxSelections   *int         `json:"maxSelections,omitempty" validate:"omitempty,min=1"`
	Points          *float64     `json:"points,omitempty" validate:"omitempty,min=0"`
	CorrectAnswer   *Value       `json:"correctAnswer,omitempty"`
}

type ExitPayload struct {
	Title       string `json:"title" validate:"max=300"`
	Description string `json:"description" validate:"max=5000"`
	ShowScore   bool   `json:"showScore"`
	RedirectURL string `json:"redirectUrl,omitempty" validate:"omitempty,url"`
}

func (EntryPayload) Kind() NodeKind    { return NodeEntry }
func (QuestionPayload) Kind() NodeKind { return NodeQuestion }
func (ExitPayload) Kind() NodeKind     { return NodeExit }

func (EntryPayload) isPayload()    {}
func (QuestionPayload) isPayload() {}
func (ExitPayload) isPayload()     {}

// HasOption reports whether optionID is one of the question's options.
func (q *QuestionPayload) HasOption(optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// Node is one screen of the flow.
type Node struct {
	ID      string
	Payload Payload
}

// Kind is derived from the payload; a node without payload has no kind.
func (n Node) Kind() NodeKind {
	if n.Payload == nil {
		return ""
	}
	return n.Payload.Kind()
}

// Question returns the question payload, or nil for entry and exit nodes.
func (n Node) Question() *QuestionPayload {
	switch p := n.Payload.(type) {
	case QuestionPayload:
		return &p
	case *QuestionPayload:
		return p
	}
	return nil
}

func (n Node) Entry() *EntryPayload {
	switch p := n.Payload.(type) {
	case EntryPayload:
		return &p
	case *EntryPayload:
		return p
	}
	return nil
}

func (n Node) Exit() *ExitPayload {
	switch p := n.Payload.(type) {
	case ExitPayload:
		return &p
	case *ExitPayload:
		return p
	}
	return nil
}

type nodeWire struct {
	ID      string          `json:"id"`
	Kind    NodeKind        `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeWire{ID: n.ID, Kind: n.Kind(), Payload: payload})
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var wire nodeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if len(wire.Payload) == 0 || string(wire.Payload) == "null" {
		wire.Payload = []byte("{}")
	}

	n.ID = wire.ID
	switch wire.Kind {
	case NodeEntry:
		var p EntryPayload
		if err := json.Unmarshal(wire.Payload, &p); err != nil {
			return fmt.Errorf("node %s: %w", wire.ID, err)
		}
		n.Payload = p
	case NodeQuestion:
		var p QuestionPayload
		if err := json.Unmarshal(wire.Payload, &p); err != nil {
			return fmt.Errorf("node %s: %w", wire.ID, err)
		}
		n.Payload = p
	case NodeExit:
		var p ExitPayload
		if err := json.Unmarshal(wire.Payload, &p); err != nil {
			return fmt.Errorf("node %s: %w", wire.ID, err)
		}
		n.Payload = p
	default:
		return fmt.Errorf("node %s: unknown kind %q", wire.ID, wire.Kind)
	}
	return nil
}

// Edge connects two nodes. A nil Condition marks the default (else) edge of its source.
type Edge struct {
	ID           string     `json:"id" validate:"required,max=100"`
	SourceNodeID string     `json:"sourceNodeId" validate:"required"`
	TargetNodeID string     `json:"targetNodeId" validate:"required"`
	OutputSlot   string     `json:"outputSlot,omitempty"`
	Condition    *Condition `json:"condition,omitempty"`
}

func (e Edge) IsDefault() bool {
	return e.Condition == nil
}

// NodeList and EdgeList are stored as jsonb columns.
type NodeList []Node

type EdgeList []Edge

func (l NodeList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Node(l))
	return string(b), err
}

func (l *NodeList) Scan(src any) error {
	return scanJSON(src, (*[]Node)(l))
}

func (l EdgeList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Edge(l))
	return string(b), err
}

func (l *EdgeList) Scan(src any) error {
	return scanJSON(src, (*[]Edge)(l))
}

func scanJSON(src any, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported jsonb source type")
	}
}
