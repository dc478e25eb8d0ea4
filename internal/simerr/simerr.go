/*
Package simerr
File: simerr.go
Description:
    Error kinds surfaced to callers of the simulation core (spec §7).
    Recoverable, actor-local conditions (missing path, short of stock,
    full destination) are never represented here — they are handled
    silently inside the phase that hits them and retried on later ticks.
*/

package simerr

import "errors"

// Sentinel kinds. Callers compare with errors.Is; wrapped context is added
// with fmt.Errorf("...: %w", Kind) at the call site.
var (
	// InvalidInput marks a validation failure on graph edits, loader field
	// checks, or negative counts.
	InvalidInput = errors.New("invalid input")

	// CycleViolation marks an economy-graph edit that would introduce a cycle.
	CycleViolation = errors.New("would introduce a cycle")

	// DependentsExist marks deletion of a product still referenced as a
	// recipe input by another product.
	DependentsExist = errors.New("dependents exist")

	// EmptyName marks a product add/update with a blank name.
	EmptyName = errors.New("name is empty")

	// UnsupportedVersion marks a save-file version mismatch.
	UnsupportedVersion = errors.New("unsupported version")

	// MissingField marks a required save-file key absent.
	MissingField = errors.New("missing field")
)
