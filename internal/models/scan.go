package models

import "time"

// ScanRecord is one completed curation run over a ticker batch.
type ScanRecord struct {
	ID          string           `json:"id" badgerhold:"key"`
	JobName     string           `json:"job_name" badgerhold:"index"`
	StartedAt   time.Time        `json:"started_at" badgerhold:"index"`
	CompletedAt time.Time        `json:"completed_at"`
	Results     []Classification `json:"results"`
	Promoted    int              `json:"promoted"`
	Demoted     int              `json:"demoted"`
	Deactivated int              `json:"deactivated"`
	Errors      int              `json:"errors"`
}

// TickerCount returns the number of tickers classified in this scan.
func (s *ScanRecord) TickerCount() int {
	return len(s.Results)
}
