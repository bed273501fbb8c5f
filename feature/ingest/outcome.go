package ingest

import "errors"

// Kind is the coarse result of a task.
type Kind string

const (
	KindSuccess Kind = "success"
	KindSkipped Kind = "skipped"
	KindFailed  Kind = "failed"
)

// Reason says why a task ended the way it did.
type Reason string

const (
	ReasonCommitted Reason = "committed"
	ReasonDuplicate Reason = "duplicate"
	ReasonInvalid   Reason = "invalid"
	ReasonFlagged   Reason = "flagged"
	ReasonError     Reason = "error"
)

var (
	// ErrFlagged is returned when a new match is incomplete or restored and the task is not forced.
	ErrFlagged = errors.New("match is flagged")

	errDuplicateFile = errors.New("file already ingested")
)

// Outcome is the result of one AddFile call.
type Outcome struct {
	TaskID    string
	Path      string
	Kind      Kind
	Reason    Reason
	FileHash  string
	MatchHash string
	FileID    uint
	MatchID   uint
	// Primary is set when this task created the Match.
	Primary bool
	Err     error
}

func (o Outcome) with(kind Kind, reason Reason, err error) Outcome {
	o.Kind = kind
	o.Reason = reason
	o.Err = err
	return o
}
