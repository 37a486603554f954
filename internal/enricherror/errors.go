// Package enricherror defines the typed errors used across the enrichment
// pipeline. Callers inspect them with errors.As instead of matching on
// message text.
package enricherror

import "fmt"

// SourceUnavailableError indicates the transaction collection could not be
// located or read. It surfaces to the caller with no partial result.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("transaction source unavailable at %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// EmptyResponseError indicates the categorization endpoint returned no usable
// text. Recovered locally by falling back to default categorization.
type EmptyResponseError struct {
	Model string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response from model %s", e.Model)
}

// MalformedResponseError indicates the returned text is not valid JSON, even
// after attempting to extract an embedded JSON fragment. It carries both the
// direct parse error and the extraction error.
type MalformedResponseError struct {
	ParseErr   error
	ExtractErr error
	Raw        string
}

func (e *MalformedResponseError) Error() string {
	if e.ExtractErr != nil {
		return fmt.Sprintf("malformed model response: %v (extraction also failed: %v)", e.ParseErr, e.ExtractErr)
	}
	return fmt.Sprintf("malformed model response: %v", e.ParseErr)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.ParseErr
}

// UnexpectedShapeError indicates the response parsed as JSON but does not
// have the top-level shape the caller expects.
type UnexpectedShapeError struct {
	Reason string
}

func (e *UnexpectedShapeError) Error() string {
	return "unexpected response shape: " + e.Reason
}

// BatchFailureError indicates an entire chunk-mode model call failed.
// Chunk is the 1-based chunk number, Size the number of transactions in it.
type BatchFailureError struct {
	Chunk int
	Total int
	Size  int
	Err   error
}

func (e *BatchFailureError) Error() string {
	return fmt.Sprintf("chunk %d/%d (%d transactions) failed: %v", e.Chunk, e.Total, e.Size, e.Err)
}

func (e *BatchFailureError) Unwrap() error {
	return e.Err
}

// TableLoadError indicates the reference table failed to load. It is never
// fatal; lookups degrade to the Review fallback.
type TableLoadError struct {
	Path string
	Err  error
}

func (e *TableLoadError) Error() string {
	return fmt.Sprintf("reference table load failed for %s: %v", e.Path, e.Err)
}

func (e *TableLoadError) Unwrap() error {
	return e.Err
}
