package recorder

import "time"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRebuild(_ *RebuildEvent) error             { return nil }
func (n *NoopRecorder) RecordIndexDays(_ time.Time, _ []IndexDay) error { return nil }
func (n *NoopRecorder) Close() error                                    { return nil }
