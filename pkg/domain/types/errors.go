package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across layers. The HTTP controller maps these
// to status codes, so use errors.Is against them at boundaries.
var (
	// ErrNotInitialized means a vector collection does not exist yet.
	ErrNotInitialized = goerr.New("collection is not initialized")

	// ErrDataNotFound means a dataset file or directory is missing.
	ErrDataNotFound = goerr.New("dataset not found")

	// ErrGeneration means the LLM failed to produce a response.
	ErrGeneration = goerr.New("response generation failed")
)
