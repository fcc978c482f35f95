package progress

// Stage identifies a phase of a slicing job
type Stage string

// Job stages, in lifecycle order. Complete and Failed are terminal.
const (
	StageIdle       Stage = "IDLE"
	StageLoading    Stage = "LOADING"
	StageVoxelizing Stage = "VOXELIZING"
	StageProjecting Stage = "PROJECTING"
	StageEncoding   Stage = "ENCODING"
	StageComplete   Stage = "COMPLETE"
	StageFailed     Stage = "FAILED"

	// StageError marks the synthetic "job not found" event emitted by the
	// progress stream. It is never stored.
	StageError Stage = "ERROR"
)

// Terminal reports whether no further stage transitions occur after s
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageFailed
}

// Record is the latest observable state of a slicing job.
// Images is set only on COMPLETE, Error only on FAILED.
type Record struct {
	Progress int      `json:"progress"`
	Stage    Stage    `json:"stage"`
	Status   string   `json:"status,omitempty"`
	Images   []string `json:"images,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// NotFound returns the synthetic terminal record for an unknown job id
func NotFound() Record {
	return Record{
		Progress: 0,
		Stage:    StageError,
		Error:    "job not found",
	}
}
