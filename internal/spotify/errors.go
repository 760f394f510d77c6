package spotify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// unknownErrMsg is the fallback when a response body yields no usable message.
const unknownErrMsg = "Unknown Spotify API error"

// APIError is a non-2xx API response with an actionable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// errorField tolerates the two shapes Spotify uses for the "error" key: an
// object carrying a message, or a bare string.
type errorField struct {
	message string
}

func (f *errorField) UnmarshalJSON(data []byte) error {
	var obj struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(data, &obj); err == nil {
		f.message = obj.Message
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.message = s
	}

	return nil
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: ExtractErrorMessage(status, body)}
}

// ExtractErrorMessage builds a user-facing message from an error response.
//
// The message comes from error.message, then a bare error string, then the
// trimmed raw body, then a generic fallback. 403 and 404 get extra guidance
// since they usually indicate market restrictions or bad identifiers rather
// than bugs.
func ExtractErrorMessage(status int, body []byte) string {
	var payload struct {
		Error errorField `json:"error"`
	}

	_ = json.Unmarshal(body, &payload)

	message := payload.Error.message
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	if message == "" {
		message = unknownErrMsg
	}

	switch status {
	case http.StatusForbidden:
		return fmt.Sprintf("Spotify API returned 403 Forbidden: %s. For development apps, ensure the requested resource is available in your market and consider using an Authorization Code token (set SPOTIFY_ACCESS_TOKEN).", message)
	case http.StatusNotFound:
		return fmt.Sprintf("Spotify API returned 404 Not Found: %s. This usually means one of the supplied IDs is invalid or unavailable in the current market.", message)
	default:
		return fmt.Sprintf("Spotify API error %d: %s", status, message)
	}
}
