package suggest

import (
	"fmt"
	"io"
	"strings"
)

const (
	// Marker opens the suggestion block and separates suggestions inside it.
	Marker = "[SUGGESTION]"
	// ErrorMarker starts the line that replaces suggestions on failure.
	ErrorMarker = "[ERROR]"
)

// WriteMarker prints the opening marker on its own line.
// Editors scan for it before the request is even sent.
func WriteMarker(w io.Writer) error {
	_, err := fmt.Fprintln(w, Marker)
	return err
}

// WriteSuggestions prints all suggestions on a single line, joined by Marker.
// An empty list yields an empty line.
func WriteSuggestions(w io.Writer, suggestions []string) error {
	_, err := fmt.Fprintln(w, strings.Join(suggestions, Marker))
	return err
}

// WriteError prints "[ERROR] <message>".
func WriteError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "%s %s\n", ErrorMarker, err.Error())
	return werr
}
