package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RequestKind is the discriminant of an algorithm request envelope.
type RequestKind string

const (
	RequestKindList      RequestKind = "list"
	RequestKindExecution RequestKind = "execution"
)

func (k *RequestKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("request_type must be a string: %w", err)
	}
	switch RequestKind(raw) {
	case RequestKindList, RequestKindExecution:
		*k = RequestKind(raw)
		return nil
	default:
		return fmt.Errorf("unknown request_type %q, expected list or execution", raw)
	}
}

// AlgorithmRequest is a fully decoded request. It is either a *ListRequest or
// an *ExecutionRequest.
type AlgorithmRequest interface {
	Kind() RequestKind
}

// ListRequest asks for the names of registered algorithms. A nil ListType
// means all of them.
type ListRequest struct {
	ListType *ListType `json:"list_type"`
}

func (*ListRequest) Kind() RequestKind { return RequestKindList }

// ExecutionRequest asks for one algorithm to run on opaque, algorithm
// specific data.
type ExecutionRequest struct {
	Algorithm AlgorithmID `json:"algorithm"`
	Data      string      `json:"data"`
}

func (*ExecutionRequest) Kind() RequestKind { return RequestKindExecution }

// ResponseStatus is the outcome reported for every algorithm request.
type ResponseStatus string

const (
	StatusOk    ResponseStatus = "Ok"
	StatusError ResponseStatus = "Error"
)

// AlgorithmResponse is the uniform answer to an algorithm request. ConsoleID is
// set when an execution streams its progress to a console session.
type AlgorithmResponse struct {
	Status    ResponseStatus `json:"status"`
	Message   string         `json:"message"`
	ConsoleID *uuid.UUID     `json:"console_id,omitempty"`
}

func OkResponse(message string) AlgorithmResponse {
	return AlgorithmResponse{Status: StatusOk, Message: message}
}

func ErrorResponse(message string) AlgorithmResponse {
	return AlgorithmResponse{Status: StatusError, Message: message}
}
