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
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/StalkR/hsts"
	"github.com/cenkalti/backoff/v4"
)

// Here's a secure HTTP client for talking to the repository. It sets the
// given timeout and enables HTTP Strict Transport Security (HSTS).
func secureHttpClient(timeout time.Duration) http.Client {
	client := http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.URL.Scheme == "http" {
				return &DowngradedRedirectError{
					Endpoint: fmt.Sprintf("%s%s", req.URL.Host, req.URL.Path),
				}
			}
			return http.ErrUseLastResponse
		},
	}
	client.Transport = hsts.New(client.Transport) // enable HSTS
	return client
}

// the statuses the repository treats as transient (the same set the
// reference API retries on)
func retryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Issues a request built by makeRequest through the given client, retrying
// up to maxRetries times with exponential backoff on transient statuses
// (429/5xx) and transport errors. Timeouts are surfaced immediately as
// TimeoutErrors. The request is rebuilt per attempt so its body is never
// re-sent partially consumed.
func doWithRetry(client *http.Client, operation string,
	makeRequest func() (*http.Request, error)) (*http.Response, error) {
	attempt := func() (*http.Response, error) {
		req, err := makeRequest()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			if isTimeout(err) {
				return nil, backoff.Permanent(&TimeoutError{Operation: operation})
			}
			return nil, err // transport error, retryable
		}
		if retryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &APIError{
				Operation:  operation,
				StatusCode: resp.StatusCode,
				Message:    messageForStatus(operation, resp.StatusCode, ""),
			}
		}
		return resp, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	return backoff.RetryWithData(attempt, backoff.WithMaxRetries(policy, maxRetries))
}

// returns true if the given transport error indicates a timeout
func isTimeout(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
