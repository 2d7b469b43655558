package recorder

import "time"

// RebuildEvent holds the outcome of one index rebuild.
type RebuildEvent struct {
	Trigger      string // "STARTUP", "CRON" or "API"
	BuiltAt      time.Time
	Duration     time.Duration
	Items        int
	EmptyItems   int
	Observations int
	Indexes      int
	Err          string
}

// IndexDay is the daily mean price of one index.
type IndexDay struct {
	Index  string
	Date   string
	Mean   float64
	Count  int
	Volume string
}

// Recorder persists rebuild history for later analysis.
type Recorder interface {
	RecordRebuild(evt *RebuildEvent) error
	RecordIndexDays(builtAt time.Time, days []IndexDay) error
	Close() error
}
