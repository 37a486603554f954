package enricher

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/txnlens/txnlens/internal/enricherror"
	"github.com/txnlens/txnlens/internal/models"
)

// stripFences removes markdown code fences that models sometimes wrap around
// JSON despite being told not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

// extractFragment locates the first '{' or '[' and the last matching closer,
// returning the substring between them. This recovers JSON embedded in
// conversational chatter.
func extractFragment(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return "", false
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// decodeResponse parses raw model output into v: direct parse first, then a
// recovery parse of the first balanced JSON fragment. A value of the wrong
// JSON kind yields UnexpectedShapeError; unparsable text yields
// MalformedResponseError carrying both errors.
func decodeResponse(raw string, v any) error {
	text := stripFences(raw)

	directErr := json.Unmarshal([]byte(text), v)
	if directErr == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(directErr, &typeErr) {
		return &enricherror.UnexpectedShapeError{
			Reason: "got JSON " + typeErr.Value + " where " + typeErr.Type.String() + " was expected",
		}
	}

	fragment, ok := extractFragment(text)
	if !ok {
		return &enricherror.MalformedResponseError{ParseErr: directErr, Raw: raw}
	}
	if err := json.Unmarshal([]byte(fragment), v); err != nil {
		if errors.As(err, &typeErr) {
			return &enricherror.UnexpectedShapeError{
				Reason: "got JSON " + typeErr.Value + " where " + typeErr.Type.String() + " was expected",
			}
		}
		return &enricherror.MalformedResponseError{ParseErr: directErr, ExtractErr: err, Raw: raw}
	}
	return nil
}

// ParseSingle parses a single-item response. The result must be an object
// carrying at least one of the three categorization fields.
func ParseSingle(raw string) (models.ModelResult, error) {
	var res models.ModelResult
	if err := decodeResponse(raw, &res); err != nil {
		return models.ModelResult{}, err
	}
	if res.GeneralCategory == "" && res.SubCategory == "" && res.DomainDescription == "" {
		return models.ModelResult{}, &enricherror.UnexpectedShapeError{
			Reason: "object carries none of generalCategory, subCategory, domainDescription",
		}
	}
	return res, nil
}

// ParseChunk parses a whole-chunk response, which must be an object with a
// "results" array of transaction objects.
func ParseChunk(raw string) ([]models.Transaction, error) {
	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := decodeResponse(raw, &envelope); err != nil {
		return nil, err
	}
	// A literal null arrives as non-nil RawMessage bytes and would unmarshal
	// into a nil slice below.
	if envelope.Results == nil || string(envelope.Results) == "null" {
		return nil, &enricherror.UnexpectedShapeError{Reason: "missing 'results' array"}
	}

	var txs []models.Transaction
	if err := json.Unmarshal(envelope.Results, &txs); err != nil {
		return nil, &enricherror.UnexpectedShapeError{Reason: "'results' is not an array of objects"}
	}
	return txs, nil
}
