package app

import "time"

// Operation tracks the CLI command an App was created for. Its ID tags every
// log line written during the command.
type Operation struct {
	ID      string
	Name    string
	Started time.Time
	Status  string // "success" or "error"
}

// NewOperation creates an operation started at now.
func NewOperation(name string, now time.Time) *Operation {
	return &Operation{
		ID:      now.UTC().Format("20060102T150405Z"),
		Name:    name,
		Started: now,
		Status:  "success",
	}
}

// Record marks the operation failed when err is non-nil and returns err.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Failed returns true if any recorded step failed.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
