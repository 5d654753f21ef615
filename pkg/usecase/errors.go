package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/types"
)

// Re-exported sentinels so boundary code can map failures without
// importing the domain packages.
var (
	ErrNotInitialized = types.ErrNotInitialized
	ErrDataNotFound   = types.ErrDataNotFound
	ErrGeneration     = types.ErrGeneration
)

const (
	genericGenerationMessage    = "Sorry, I encountered an error while generating the response. Please try again later."
	credentialGenerationMessage = "Sorry, there is an issue with the server's AI configuration. Please contact the administrator."
)

// credential failure signatures seen from the Gemini API.
var credentialMarkers = []string{
	"api key not valid",
	"api key",
	"credential",
	"permission denied",
	"unauthenticated",
}

// GenerationMessage renders a generation failure as a user-safe
// message. Credential problems get an administrator-facing hint instead
// of the generic apology; the raw provider error is never exposed.
func GenerationMessage(err error) string {
	if err == nil || !errors.Is(err, types.ErrGeneration) {
		return genericGenerationMessage
	}

	msg := strings.ToLower(errorText(err))
	for _, marker := range credentialMarkers {
		if strings.Contains(msg, marker) {
			return credentialGenerationMessage
		}
	}
	return genericGenerationMessage
}

// errorText flattens the error message and any goerr values into one
// searchable string; the provider error usually rides along as a value.
func errorText(err error) string {
	parts := []string{err.Error()}

	var ge *goerr.Error
	if errors.As(err, &ge) {
		for _, v := range ge.Values() {
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, " ")
}
