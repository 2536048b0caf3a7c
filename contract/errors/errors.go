package errors

// Error codes for the mediator contracts. Keep stable; used across the
// registry, the dispatcher and the relay sinks.
const (
	ErrCodeConfiguration       = "mediator.configuration"
	ErrCodeHandlerExists       = "mediator.handler_exists"
	ErrCodeHandlerNotFound     = "mediator.handler_not_found"
	ErrCodeHandlerTypeMismatch = "mediator.handler_type_mismatch"
	ErrCodeHandlerUnresolvable = "mediator.handler_unresolvable"
	ErrCodeNilMessage          = "mediator.nil_message"
	ErrCodeForwardFailed       = "mediator.forward_failed"
	ErrCodeSerializationFailed = "mediator.serialization_failed"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrConfiguration       = Code(ErrCodeConfiguration)
	ErrHandlerExists       = Code(ErrCodeHandlerExists)
	ErrHandlerNotFound     = Code(ErrCodeHandlerNotFound)
	ErrHandlerTypeMismatch = Code(ErrCodeHandlerTypeMismatch)
	ErrHandlerUnresolvable = Code(ErrCodeHandlerUnresolvable)
	ErrNilMessage          = Code(ErrCodeNilMessage)
	ErrForwardFailed       = Code(ErrCodeForwardFailed)
	ErrSerializationFailed = Code(ErrCodeSerializationFailed)
)
