package enricher

import "context"

// CompletionRequest carries one prompt pair to the categorization endpoint.
type CompletionRequest struct {
	System          string
	User            string
	MaxOutputTokens int
}

// AIClient defines the interface for the external text-generation service.
// This abstraction allows the enrichment logic to be tested without network
// calls and keeps the provider choice out of the core pipeline.
type AIClient interface {
	// Complete sends a system/user prompt pair and returns the raw text of
	// the first choice. The response is requested as JSON but arrives as an
	// unparsed string; parsing is the caller's concern. Retries are too.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
