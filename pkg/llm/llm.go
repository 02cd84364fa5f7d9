package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Message roles accepted by chat-completion style backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Schema asks the backend to constrain its output to a named JSON schema.
// The gateway forwards it verbatim; conformance checking stays with the
// caller because backends differ in strictness.
type Schema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// Request is one generative invocation: an ordered conversation plus an
// optional schema-constrained output request.
type Request struct {
	Messages       []Message
	ResponseSchema *Schema
}

// Result holds whatever the backend produced. Text carries a plain assistant
// reply; JSON carries the raw structured content for backends that return an
// object instead of a string in JSON mode. Exactly one of the two is set.
type Result struct {
	Text string
	JSON json.RawMessage
}

// Gateway is the minimal abstraction over a text-generation backend used by
// the domain. Implementations perform a single outbound call per Invoke, with
// a fixed timeout and no retries; retry policy, if wanted, belongs to callers.
type Gateway interface {
	Invoke(ctx context.Context, req Request) (Result, error)
}

// ErrorKind classifies gateway failures so callers can tell missing
// configuration apart from backend trouble.
type ErrorKind string

const (
	// ErrKindConfig means the gateway cannot be used at all: no credential
	// or backend URL is configured.
	ErrKindConfig ErrorKind = "config"
	// ErrKindBackend covers unreachable backends, non-success responses and
	// responses with no extractable content.
	ErrKindBackend ErrorKind = "backend"
)

// GatewayError is the uniform failure type of a Gateway.
type GatewayError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm gateway %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("llm gateway %s failed", e.Op)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is a gateway failure caused by missing
// configuration rather than a backend problem.
func IsConfigError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Kind == ErrKindConfig
}
