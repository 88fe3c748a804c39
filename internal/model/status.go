package model

import "fmt"

// StatusKind classifies how a compiler invocation terminated.
type StatusKind int

const (
	// StatusExited means the process ran to completion; Code holds its exit code.
	StatusExited StatusKind = iota
	// StatusSpawnFailed means the executable could not be started at all.
	StatusSpawnFailed
	// StatusTimedOut means the process exceeded its time bound and was killed.
	StatusTimedOut
	// StatusCanceled means the run was aborted while the process was in flight.
	StatusCanceled
)

func (k StatusKind) String() string {
	switch k {
	case StatusExited:
		return "exited"
	case StatusSpawnFailed:
		return "spawn failed"
	case StatusTimedOut:
		return "timed out"
	case StatusCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}

// Status is the termination status of one compiler invocation.
type Status struct {
	Kind   StatusKind
	Code   int   // valid only for StatusExited; -1 if killed by a signal
	Reason error // spawn failure or cancellation cause
}

// Exited returns a status for a process that ran to completion.
func Exited(code int) Status {
	return Status{Kind: StatusExited, Code: code}
}

// SpawnFailed returns a status for an executable that could not be started.
func SpawnFailed(reason error) Status {
	return Status{Kind: StatusSpawnFailed, Reason: reason}
}

// TimedOut returns a status for a process killed after its time bound.
func TimedOut() Status {
	return Status{Kind: StatusTimedOut}
}

// Canceled returns a status for a process killed because the run was aborted.
func Canceled(reason error) Status {
	return Status{Kind: StatusCanceled, Reason: reason}
}

func (s Status) String() string {
	switch s.Kind {
	case StatusExited:
		return fmt.Sprintf("exited(%d)", s.Code)
	case StatusSpawnFailed, StatusCanceled:
		if s.Reason != nil {
			return fmt.Sprintf("%s: %v", s.Kind, s.Reason)
		}
	}
	return s.Kind.String()
}
