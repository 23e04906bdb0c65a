package models

import "time"

// MessageRecord is a message the child device forwarded for screening.
type MessageRecord struct {
	ID        string    `json:"id,omitempty"`
	ChildUID  string    `json:"child_uid"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	App       string    `json:"app,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportedText is free text the child flagged themselves.
type ReportedText struct {
	ID        string    `json:"id,omitempty"`
	ChildUID  string    `json:"child_uid"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
