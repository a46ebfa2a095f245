package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 20

// upstreamErrorResponse matches the {"error":{"code","message"}} envelope
// written by httputil.
type upstreamErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError drains and closes a non-2xx response and converts it to
// an error. A 404 becomes a not-found error for resource, a 400 an
// invalid-input error, and everything else marks resource unavailable.
func ParseResponseError(resp *http.Response, resource string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apperrors.Unavailable(resource, fmt.Errorf("status %d (failed to read body: %w)", resp.StatusCode, err))
	}

	message := string(body)
	var upstream upstreamErrorResponse
	if json.Unmarshal(body, &upstream) == nil && upstream.Error != nil {
		message = upstream.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		target := ""
		if resp.Request != nil && resp.Request.URL != nil {
			target = resp.Request.URL.Path
		}
		return apperrors.NotFound(resource, target)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", resource, message))
	default:
		return apperrors.Unavailable(resource, fmt.Errorf("status %d: %s", resp.StatusCode, message))
	}
}

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
