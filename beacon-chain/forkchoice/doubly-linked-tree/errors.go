package doublylinkedtree

import "github.com/pkg/errors"

var ErrNilNode = errors.New("invalid nil or unknown node")
var errInvalidParentRoot = errors.New("invalid parent root")
var errUnknownFinalizedRoot = errors.New("unknown finalized root")
var errInvalidOptimisticStatus = errors.New("invalid optimistic status")
var errValidStatusBecameInvalid = errors.New("valid execution status became invalid")
var errIrrelevantDescendant = errors.New("irrelevant descendant of an invalidated block")
