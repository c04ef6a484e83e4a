package domain

import "errors"

var (
	// ErrInvalidFormat is returned when a bank payload is neither a bare array
	// nor an object with a questions array. Callers treat the bank as empty.
	ErrInvalidFormat = errors.New("question bank payload not recognized")
	// ErrBankNotFound indicates the named bank does not exist in the backing store.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptySession is returned when a session would start with zero questions.
	ErrEmptySession = errors.New("no questions available for session")
	// ErrNoActiveSession is returned when an operation needs a running session.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrSessionFinished is returned for mutations after submit.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrIndexOutOfRange indicates a navigation or option index outside bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrQuestionNotFound indicates an operation referenced an unknown question ID.
	ErrQuestionNotFound = errors.New("question not found in session")
)
