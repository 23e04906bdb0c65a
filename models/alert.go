package models

import (
	"encoding/json"
	"time"
)

type AlertKind string

const (
	AlertKindMessage      AlertKind = "message"
	AlertKindReportedText AlertKind = "reported_text"
)

// Alert is created by screening a reported message or text. Acknowledged is the
// only mutable field and only ever moves from false to true.
type Alert struct {
	ID           string    `json:"id"`
	ChildUID     string    `json:"child_uid"`
	Type         AlertKind `json:"type"`
	From         string    `json:"from,omitempty"`
	Text         string    `json:"text"`
	Suspicious   bool      `json:"suspicious"`
	Analysis     Analysis  `json:"analysis"`
	CreatedAt    time.Time `json:"created_at"`
	Acknowledged bool      `json:"acknowledged"`
}

// LabelScore is one label of the external text classifier.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Analysis is the text analyzer output: either Pipe or Error is set.
type Analysis struct {
	Pipe  []LabelScore `json:"pipe,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (a Analysis) Failed() bool {
	return a.Error != ""
}

// MarshalJSON always emits "pipe" for a successful analysis, as [] when the
// model returned no labels.
func (a Analysis) MarshalJSON() ([]byte, error) {
	if a.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{a.Error})
	}
	pipe := a.Pipe
	if pipe == nil {
		pipe = []LabelScore{}
	}
	return json.Marshal(struct {
		Pipe []LabelScore `json:"pipe"`
	}{pipe})
}
