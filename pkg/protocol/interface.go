/*
Package protocol defines the wire messages exchanged with an llmstep suggestion server.

A client sends one request per invocation and reads one response back.
The default encoding is JSON:

	{"tactic_state": "⊢ True", "prefix": "", "context": ""}

The server answers with the ranked candidate tactics:

	{"suggestions": ["trivial", "exact True.I"]}

Fields other than suggestions are ignored. The key must be exactly
"suggestions"; a response without it, with a null list, or with a null entry
is malformed.

The msgpack codec uses the same field names so a server can decode either
format into the same structure.
*/
package protocol

// Request carries the proof state to the server. All fields are passed through verbatim.
type Request struct {
	TacticState string `json:"tactic_state" msgpack:"tactic_state"`
	Prefix      string `json:"prefix" msgpack:"prefix"`
	Context     string `json:"context" msgpack:"context"`
}

// Response is what the server sends back. Use Codec.DecodeResponse to read one;
// it matches the suggestions key exactly and rejects null entries.
type Response struct {
	Suggestions []string `json:"suggestions" msgpack:"suggestions"`
}
