package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Side identifies which source dataset an error refers to in a cross-source
// run. Single-source runs leave it empty.
type Side string

const (
	SideNFS  Side = "NFS"
	SidePisa Side = "Pisa"
)

// ErrNoValidRecords is the sentinel matched by errors.Is for datasets that
// parsed but lost every row to protocol/category filtering.
var ErrNoValidRecords = errors.New("no valid records after filtering")

// SchemaError reports every required column missing from an input dataset,
// never just the first. It is not retryable without fixing the input.
type SchemaError struct {
	Side    Side
	Missing []string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
	if e.Side != "" {
		return fmt.Sprintf("%s: %s", e.Side, msg)
	}
	return msg
}

// NoValidRecordsError reports that an input parsed but nothing survived the
// protocol/category filter. It is not retryable without fixing the input.
type NoValidRecordsError struct {
	Side Side
}

func (e *NoValidRecordsError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("%s: %s", e.Side, ErrNoValidRecords.Error())
	}
	return ErrNoValidRecords.Error()
}

func (e *NoValidRecordsError) Is(target error) bool {
	return target == ErrNoValidRecords
}

// QualifySide stamps a side onto schema/no-valid-records errors raised by a
// single-source transform running inside a cross-source reconciliation, so
// the caller can report which input needs fixing.
func QualifySide(err error, side Side) error {
	if err == nil {
		return nil
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Side == "" {
		schemaErr.Side = side
	}
	var noValidErr *NoValidRecordsError
	if errors.As(err, &noValidErr) && noValidErr.Side == "" {
		noValidErr.Side = side
	}
	return err
}
