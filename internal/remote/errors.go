package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrConflict signals a remote uniqueness violation: the row is already
// present server-side. The push reconciler treats it as success.
var ErrConflict = errors.New("remote: row already present")

// pgUniqueViolation is PostgreSQL's code for a unique constraint violation,
// surfaced by the REST layer in the error body.
const pgUniqueViolation = "23505"

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeWriteError classifies a write response: 2xx is success, a uniqueness
// violation maps to ErrConflict, anything else is a transient sync failure
// left for the next push cycle.
func decodeWriteError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)

	if resp.StatusCode == http.StatusConflict || apiErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	if apiErr.Message != "" {
		return fmt.Errorf("remote: returned %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("remote: returned %d", resp.StatusCode)
}
