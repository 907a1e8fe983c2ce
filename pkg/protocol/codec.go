package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Codec encodes requests and decodes responses for one wire format.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	DecodeResponse(data []byte) (*Response, error)
}

var (
	// ErrNoSuggestions means the body has no exact "suggestions" key, or it is null.
	ErrNoSuggestions = errors.New("response has no 'suggestions' list")
	// ErrNullSuggestion means the list holds a null entry.
	ErrNullSuggestion = errors.New("'suggestions' contains a null entry")
)

// toResponse turns a decoded list into a Response, rejecting null entries.
func toResponse(list []*string) (*Response, error) {
	out := make([]string, len(list))
	for i, s := range list {
		if s == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNullSuggestion, i)
		}
		out[i] = *s
	}
	return &Response{Suggestions: out}, nil
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) ContentType() string                { return "application/json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// DecodeResponse goes through a raw map because struct decoding in
// encoding/json matches keys case-insensitively.
func (jsonCodec) DecodeResponse(data []byte) (*Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	raw, ok := fields["suggestions"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrNoSuggestions
	}
	var list []*string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return toResponse(list)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string                       { return "msgpack" }
func (msgpackCodec) ContentType() string                { return "application/msgpack" }
func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

func (msgpackCodec) DecodeResponse(data []byte) (*Response, error) {
	var fields map[string]msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	raw, ok := fields["suggestions"]
	if !ok || (len(raw) == 1 && raw[0] == msgpcode.Nil) {
		return nil, ErrNoSuggestions
	}
	var list []*string
	if err := msgpack.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return toResponse(list)
}

var (
	// JSON is the default codec, understood by every llmstep server.
	JSON Codec = jsonCodec{}
	// MsgPack trades readability for smaller bodies.
	MsgPack Codec = msgpackCodec{}
)

// CodecByName looks up a codec by its config name. Empty selects JSON.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want json or msgpack)", name)
	}
}
