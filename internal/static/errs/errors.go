package errs

import "errors"

// Request protocol
var (
	ErrEnvelopeDecode   = errors.New("error parsing toplevel request")
	ErrContentDecode    = errors.New("error parsing request content")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

var (
	ErrUnknownSession    = errors.New("unknown console session")
	ErrExecutionNotFound = errors.New("execution not found")
)
