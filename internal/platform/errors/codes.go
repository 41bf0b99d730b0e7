// Package errors provides structured error handling for the rules core.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Engine errors
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	CodeCommandInvalid     Code = "COMMAND_INVALID"
	CodeCommandRejected    Code = "COMMAND_REJECTED"

	// Game lifecycle errors
	CodeGameNotStarted  Code = "GAME_NOT_STARTED"
	CodeGameFinished    Code = "GAME_FINISHED"
	CodeGameSetupClosed Code = "GAME_SETUP_CLOSED"
	CodeTurnNotYours    Code = "TURN_NOT_YOURS"

	// Map errors
	CodeMapInvalid Code = "MAP_INVALID"

	// Storage errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeStorageCorrupted  Code = "STORAGE_CORRUPTED"
	CodeStorageSeqGap     Code = "STORAGE_SEQUENCE_GAP"
	CodeFilterInvalid     Code = "FILTER_INVALID"
	CodeScenarioInvalid   Code = "SCENARIO_INVALID"
	CodeScenarioAssertion Code = "SCENARIO_ASSERTION_FAILED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeCommandInvalid,
		CodeMapInvalid,
		CodeFilterInvalid,
		CodeScenarioInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeCommandRejected,
		CodeGameNotStarted,
		CodeGameFinished,
		CodeGameSetupClosed,
		CodeTurnNotYours,
		CodeScenarioAssertion:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// DataLoss - journal or snapshot cannot be trusted
	case CodeStorageCorrupted,
		CodeStorageSeqGap:
		return codes.DataLoss

	default:
		return codes.Internal
	}
}
