package proof

import "errors"

// ErrResolutionError marks a history-premise inconsistency: add_res found
// zero or more than one cancelling literal pair while folding a clause's
// recorded parents. Per §7 this indicates a solver bug, not a user error.
var ErrResolutionError = errors.New("proof: resolution error")

// ErrInsufficientHypotheses marks prove_unsat's inability to close the
// proof with the premises on hand. Per §7 this is fatal to proof
// production only: the UNSAT verdict itself still stands, the caller
// just gets no proof object.
var ErrInsufficientHypotheses = errors.New("proof: insufficient hypotheses")
