package models

type UsageSummaryEntry struct {
	Package  string  `json:"package"`
	Seconds  int64   `json:"seconds"`
	Fraction float64 `json:"fraction"`
	Bar      string  `json:"bar"`
	Emoji    string  `json:"emoji"`
}

type UsageSummary struct {
	TotalSeconds int64               `json:"total_seconds"`
	Entries      []UsageSummaryEntry `json:"summary"`
}
