package loader

import (
	"errors"
	"fmt"
)

// Phase names a step of a load run.
type Phase string

const (
	PhaseConnect Phase = "connect"
	PhaseSchema  Phase = "schema"
	PhaseRead    Phase = "read"
	PhaseBegin   Phase = "begin"
	PhaseCommit  Phase = "commit"
)

// Sentinels matched by errors.Is against a *PhaseError.
var (
	ErrConnect = errors.New("connect to database")
	ErrSchema  = errors.New("reset schema")
	ErrRead    = errors.New("read input")
	ErrBegin   = errors.New("begin transaction")
	ErrCommit  = errors.New("commit transaction")
)

var phaseSentinels = map[Phase]error{
	PhaseConnect: ErrConnect,
	PhaseSchema:  ErrSchema,
	PhaseRead:    ErrRead,
	PhaseBegin:   ErrBegin,
	PhaseCommit:  ErrCommit,
}

// PhaseError is a failure that ended a load run before all rows were attempted
// or made durable.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", phaseSentinels[e.Phase], e.Err)
}

func (e *PhaseError) Unwrap() []error {
	return []error{phaseSentinels[e.Phase], e.Err}
}

// Fatal reports whether the run stopped before touching any row: a connection
// or schema failure. Read, begin, and commit failures happen after the table
// was reset and leave it empty.
func (e *PhaseError) Fatal() bool {
	return e.Phase == PhaseConnect || e.Phase == PhaseSchema
}

// Row failure stages.
const (
	StageParse  = "parse"
	StageInsert = "insert"
)

// RowFailure records a skipped data row. Index is zero-based and excludes the header.
type RowFailure struct {
	Index int
	Stage string
	Err   error
}
