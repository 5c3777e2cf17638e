package domain

import "errors"

var (
	// ErrDataset is returned when a dataset file is missing, unreadable or malformed.
	ErrDataset = errors.New("dataset error")
	// ErrDatasetMismatch indicates the parallel dataset sequences disagree.
	ErrDatasetMismatch = errors.New("dataset mismatch")
	// ErrAnswerNotInOptions indicates a question whose answer is not one of its options.
	// It is always reported together with ErrDatasetMismatch.
	ErrAnswerNotInOptions = errors.New("answer not among options")
	// ErrDatasetNotFound indicates the requested dataset does not exist in the backing store.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrIndexOutOfRange is returned for a question index outside the bank.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrInvalidAction is returned when an action is not allowed in the current mode or state.
	ErrInvalidAction = errors.New("action not allowed")
	// ErrSessionEnded is returned for actions on a session whose round is over.
	ErrSessionEnded = errors.New("session ended")
	// ErrUnknownMode indicates an unrecognized mode name.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrUnknownUser is returned when sign-in fails.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidKey is returned when an instructor key does not match.
	ErrInvalidKey = errors.New("invalid instructor key")
	// ErrMalformedRecord indicates a persisted score or progress record could not be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)
