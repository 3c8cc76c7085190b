package recorder

import "EquityScreener/internal/model"

// Recorder persists screening runs for later analysis.
type Recorder interface {
	RecordRun(run *model.Run) error
	Close() error
}
