package algorithm

import (
	"encoding/json"
	"errors"
	"fmt"

	"gitlab.com/sysalgs.net/internal/domain"
	"gitlab.com/sysalgs.net/internal/static/errs"
)

// envelope exposes only the discriminant; content stays raw until the kind
// is known.
type envelope struct {
	RequestType *domain.RequestKind `json:"request_type"`
	Content     json.RawMessage     `json:"content"`
}

type listContent struct {
	ListType *domain.ListType `json:"list_type"`
}

type executionContent struct {
	Algorithm *string `json:"algorithm"`
	Data      *string `json:"data"`
}

// ParseEnvelope decodes a request body in two stages: the envelope first,
// then its content against the shape the request kind selects. Either stage
// failing yields an error wrapping errs.ErrEnvelopeDecode or
// errs.ErrContentDecode and no request.
func ParseEnvelope(body []byte) (domain.AlgorithmRequest, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrEnvelopeDecode, err)
	}
	if env.RequestType == nil {
		return nil, fmt.Errorf("%w: missing field request_type", errs.ErrEnvelopeDecode)
	}
	if isAbsent(env.Content) {
		return nil, fmt.Errorf("%w: missing field content", errs.ErrEnvelopeDecode)
	}

	switch *env.RequestType {
	case domain.RequestKindList:
		return parseList(env.Content)
	case domain.RequestKindExecution:
		return parseExecution(env.Content)
	default:
		return nil, fmt.Errorf("%w: unknown request_type %q", errs.ErrEnvelopeDecode, *env.RequestType)
	}
}

func parseList(content json.RawMessage) (*domain.ListRequest, error) {
	var c listContent
	if err := decodeObject(content, &c); err != nil {
		return nil, fmt.Errorf("%w: list request: %v", errs.ErrContentDecode, err)
	}
	return &domain.ListRequest{ListType: c.ListType}, nil
}

func parseExecution(content json.RawMessage) (*domain.ExecutionRequest, error) {
	var c executionContent
	if err := decodeObject(content, &c); err != nil {
		return nil, fmt.Errorf("%w: execution request: %v", errs.ErrContentDecode, err)
	}
	if c.Algorithm == nil {
		return nil, fmt.Errorf("%w: execution request: missing field algorithm", errs.ErrContentDecode)
	}
	if c.Data == nil {
		return nil, fmt.Errorf("%w: execution request: missing field data", errs.ErrContentDecode)
	}
	return &domain.ExecutionRequest{
		Algorithm: domain.AlgorithmID(*c.Algorithm),
		Data:      *c.Data,
	}, nil
}

var errNotAnObject = errors.New("content must be a JSON object")

// decodeObject rejects anything but a JSON object, so null or scalar content
// never decodes into a zero-valued request.
func decodeObject(raw json.RawMessage, into interface{}) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return errNotAnObject
	}
	return json.Unmarshal(raw, into)
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
