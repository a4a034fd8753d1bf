// Copyright (c) 2025 The ZEDD Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package zenodo

import (
	"errors"
	"fmt"
)

// This error type is returned for HTTP error responses from the repository.
// Its message is derived from the response status so users see an actionable
// explanation rather than a bare status code.
type APIError struct {
	// the operation during which the error occurred, e.g. "create deposition"
	Operation string
	// the HTTP status of the response (0 for transport-level failures)
	StatusCode int
	// a human-readable explanation
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// this error type is returned when a request exceeds its configured timeout,
// distinguished from HTTP error responses so callers can suggest checking
// connectivity
type TimeoutError struct {
	Operation string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Request timed out during %s. Please check your connection and try again.",
		e.Operation)
}

// This error type signals that a user cancelled an in-flight upload. The
// progress reader returns it before yielding the next chunk so the HTTP
// client aborts the transfer mid-stream.
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "upload cancelled by user"
}

// returns true if the given error is (or wraps) a user cancellation
func IsCancelled(err error) bool {
	var cancelled *CancelledError
	return errors.As(err, &cancelled)
}

// this error type is emitted if an endpoint redirects an HTTPS request to an
// HTTP endpoint
type DowngradedRedirectError struct {
	Endpoint string
}

func (e *DowngradedRedirectError) Error() string {
	return fmt.Sprintf("The endpoint %s is attempting to downgrade an HTTPS request to HTTP",
		e.Endpoint)
}

// builds the user-facing message for an HTTP error status
func messageForStatus(operation string, statusCode int, detail string) string {
	switch {
	case statusCode == 400:
		if detail != "" {
			return detail
		}
		return fmt.Sprintf("Bad request during %s. Please check your data.", operation)
	case statusCode == 401:
		return "Invalid access token. Please check your API token."
	case statusCode == 403:
		return "Insufficient permissions. Please check your token scopes."
	case statusCode == 404:
		return fmt.Sprintf("Resource not found during %s.", operation)
	case statusCode == 409:
		return "Resource conflict. The deposition may be being processed."
	case statusCode == 413:
		return "File too large. Maximum file size is 50GB."
	case statusCode == 429:
		return "Rate limit exceeded. Please wait a few minutes and try again."
	case statusCode >= 500:
		return fmt.Sprintf("Server error during %s. Please try again later.", operation)
	default:
		return fmt.Sprintf("Unexpected response (HTTP %d) during %s.", statusCode, operation)
	}
}
