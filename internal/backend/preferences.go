package backend

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/amishk599/jobmatch/internal/model"
)

// rawOutputMarker prefixes the extraction engine's literal output in the
// backend's "raw" diagnostic.
const rawOutputMarker = "🔍 Raw GPT output:"

const (
	msgInputNotClear      = "input not clear"
	msgExtractionRejected = "the backend could not interpret the input"
)

type clarifyRequest struct {
	Input string `json:"input"`
}

// ClarifyPreferences asks the backend to turn a free-text query into Preferences.
func (c *Client) ClarifyPreferences(ctx context.Context, query string) (model.Preferences, error) {
	body, err := c.postJSON(ctx, "/api/agents/preferences", clarifyRequest{Input: query})
	if err != nil {
		return model.Preferences{}, err
	}
	return parsePreferences(body)
}

// parsePreferences validates a 2xx preferences response. Error envelopes and
// bodies missing any of keywords/location/remote never yield Preferences.
func parsePreferences(body []byte) (model.Preferences, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return model.Preferences{}, &model.UnexpectedError{Op: "decode preferences", Err: err}
	}

	raw := rawDiagnostic(fields["raw"])

	if errText, ok := errorIndicator(fields["error"]); ok {
		msg := errText
		if raw != "" {
			msg = raw
		}
		return model.Preferences{}, &model.ExtractionError{Message: msg}
	}

	prefs, ok := decodePreferences(fields)
	if !ok {
		if raw != "" {
			return model.Preferences{}, &model.ExtractionError{Message: raw}
		}
		return model.Preferences{}, &model.InvalidInputError{Message: msgInputNotClear}
	}
	return prefs, nil
}

func decodePreferences(fields map[string]json.RawMessage) (model.Preferences, bool) {
	var prefs model.Preferences

	kw, loc, remote := fields["keywords"], fields["location"], fields["remote"]
	if isNull(kw) || isNull(loc) || isNull(remote) {
		return prefs, false
	}
	if err := json.Unmarshal(kw, &prefs.Keywords); err != nil {
		return prefs, false
	}
	if err := json.Unmarshal(loc, &prefs.Location); err != nil {
		return prefs, false
	}
	if err := json.Unmarshal(remote, &prefs.Remote); err != nil {
		return prefs, false
	}
	return prefs, true
}

// errorIndicator reports whether the body carries an explicit error, and its text.
// null, false and "" do not count.
func errorIndicator(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return msgExtractionRejected, true
	}
	switch e := v.(type) {
	case bool:
		return msgExtractionRejected, e
	case string:
		s := strings.TrimSpace(e)
		return s, s != ""
	default:
		return msgExtractionRejected, true
	}
}

// rawDiagnostic returns the cleaned "raw" field, or "" when it is absent or
// not a string.
func rawDiagnostic(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return cleanRawOutput(s)
}

// cleanRawOutput keeps only the text after rawOutputMarker, trimmed.
func cleanRawOutput(s string) string {
	if idx := strings.Index(s, rawOutputMarker); idx >= 0 {
		s = s[idx+len(rawOutputMarker):]
	}
	return strings.TrimSpace(s)
}
