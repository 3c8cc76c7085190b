package recorder

import "EquityScreener/internal/model"

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.Run) error { return nil }
func (n *NoopRecorder) Close() error                 { return nil }
