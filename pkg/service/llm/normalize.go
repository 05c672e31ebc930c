package llm

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrParseResponse indicates model output that was not valid JSON after
// fence stripping. The wrapped error carries the original raw text for
// diagnostics.
var ErrParseResponse = goerr.New("failed to parse model response as JSON")

// StripFences removes markdown code fence markers and any stray backtick
// characters from raw model output. Tagged fences (```json) are handled
// before bare ones; the final backtick sweep guards against partial
// fencing. The operation is idempotent: already-clean text is returned
// trimmed but otherwise unchanged.
func StripFences(raw string) string {
	switch {
	case strings.Contains(raw, "```json"):
		raw = strings.ReplaceAll(raw, "```json", "")
		raw = strings.ReplaceAll(raw, "```", "")
	case strings.Contains(raw, "```"):
		raw = strings.ReplaceAll(raw, "```", "")
	}

	raw = strings.ReplaceAll(raw, "`", "")

	return strings.TrimSpace(raw)
}

// TrimFences is the lighter prefix/suffix variant: it removes a single
// leading fence marker and a single trailing one, leaving interior
// backticks alone.
func TrimFences(raw string) string {
	s := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(s, "```json"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "```"); ok {
		s = rest
	}

	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// Unmarshal cleans raw model output with StripFences and decodes the
// remainder into v.
func Unmarshal(raw string, v any) error {
	cleaned := StripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return goerr.Wrap(ErrParseResponse, err.Error(), goerr.V("raw", raw))
	}
	return nil
}
