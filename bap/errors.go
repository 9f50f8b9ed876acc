package bap

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoBranchCreator is returned by New when no branch creator is configured.
	ErrNoBranchCreator = errors.New("bap: at least one branch creator is required")

	// ErrNoIntegrality is returned by New when no integrality predicate is configured.
	ErrNoIntegrality = errors.New("bap: integrality predicate is required")

	// ErrAlreadyRun is returned by a second call to Run.
	ErrAlreadyRun = errors.New("bap: engine has already run")

	// ErrVolatileWarmStart is returned when warm-start columns are volatile.
	ErrVolatileWarmStart = errors.New("bap: warm start columns must not be volatile")
)

// NodeError carries the context of a failure that aborted the search.
type NodeError struct {
	NodeID int
	// Path lists the decisions from the root to the node.
	Path []string
	// Status is the last known solver status for the node.
	Status string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("bap: node %d [%s] (last status %s): %v",
		e.NodeID, strings.Join(e.Path, " > "), e.Status, e.Err)
}

// Unwrap returns the underlying error.
func (e *NodeError) Unwrap() error { return e.Err }
