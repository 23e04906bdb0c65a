package models

import "time"

type AppUsageRecord struct {
	ID              string    `json:"id,omitempty"`
	UID             string    `json:"uid"`
	Package         string    `json:"package"`
	DurationSeconds int64     `json:"duration_seconds"`
	Timestamp       time.Time `json:"timestamp"`
}

type JournalEntry struct {
	ID        string    `json:"id,omitempty"`
	UID       string    `json:"uid"`
	Date      string    `json:"date"`
	Good      []string  `json:"good"`
	Bad       []string  `json:"bad"`
	CreatedAt time.Time `json:"created_at"`
}

// Reminder only records intent; an external scheduler triggers it.
type Reminder struct {
	ID              string    `json:"id,omitempty"`
	UID             string    `json:"uid"`
	Type            string    `json:"type"`
	IntervalMinutes *int      `json:"interval_minutes"`
	AtTime          *string   `json:"at_time"`
	CreatedAt       time.Time `json:"created_at"`
}

// LocationSample is one position report; the newest sample is the current location.
type LocationSample struct {
	ID        string    `json:"id,omitempty"`
	UID       string    `json:"uid"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"ts"`
}

type SOSEvent struct {
	ID        string    `json:"id,omitempty"`
	SOSID     string    `json:"sos_id"`
	UID       string    `json:"uid"`
	Lat       *float64  `json:"lat"`
	Lng       *float64  `json:"lng"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"ts"`
}
