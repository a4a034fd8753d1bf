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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danielnrainer/ZEDD/metadata"
)

// returns metadata good enough for the fake repository
func testMetadata() metadata.DepositionMetadata {
	md := metadata.Default()
	md.Title = "Test dataset"
	md.Description = "A dataset used only for testing."
	md.Creators = []metadata.Creator{{Name: "Carberry, Josiah"}}
	return md
}

// A minimal fake of the repository's deposition API, sufficient for client
// tests: one deposition with id 123 and an in-memory bucket.
func newFakeRepository(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	var server *httptest.Server

	depositionJSON := func() []byte {
		body, _ := json.Marshal(map[string]any{
			"id":    123,
			"state": "unsubmitted",
			"links": map[string]any{
				"bucket": server.URL + "/api/files/bucket-1",
				"html":   server.URL + "/deposit/123",
			},
		})
		return body
	}

	mux.HandleFunc("POST /api/deposit/depositions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var request struct {
			Metadata map[string]any `json:"metadata"`
		}
		body, _ := io.ReadAll(r.Body)
		assert.Nil(t, json.Unmarshal(body, &request))
		assert.NotEmpty(t, request.Metadata["title"])
		w.WriteHeader(http.StatusCreated)
		w.Write(depositionJSON())
	})
	mux.HandleFunc("GET /api/deposit/depositions/123", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		w.Write(depositionJSON())
	})
	mux.HandleFunc("PUT /api/files/bucket-1/{name}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		data, err := io.ReadAll(r.Body)
		assert.Nil(t, err)
		body, _ := json.Marshal(map[string]any{
			"key":        r.PathValue("name"),
			"checksum":   "md5:0123456789abcdef0123456789abcdef",
			"size":       len(data),
			"version_id": "v1",
		})
		w.WriteHeader(http.StatusCreated)
		w.Write(body)
	})
	mux.HandleFunc("POST /api/deposit/depositions/123/actions/publish", func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"id":        123,
			"state":     "done",
			"submitted": true,
		})
		w.WriteHeader(http.StatusAccepted)
		w.Write(body)
	})
	mux.HandleFunc("DELETE /api/deposit/depositions/123", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	client, err := NewClientWithOptions("test-token", true, ClientOptions{
		BaseURL: server.URL + "/api",
	})
	assert.Nil(t, err)
	return client
}

// tests that a client requires an access token
func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("", true)
	assert.NotNil(t, err)
}

// tests deposition creation against the fake repository
func TestCreateDeposition(t *testing.T) {
	client := newTestClient(t, newFakeRepository(t))
	deposition, err := client.CreateDeposition(testMetadata())
	assert.Nil(t, err)
	assert.Equal(t, int64(123), deposition.Id)
	assert.NotEmpty(t, deposition.Links.Bucket)
}

// tests the full upload path: fetch deposition, stream the file to the
// bucket, and report chunk-grained progress
func TestUploadFile(t *testing.T) {
	client := newTestClient(t, newFakeRepository(t))
	client.chunkSize = 256

	path := filepath.Join(t.TempDir(), "dataset.zip")
	err := os.WriteFile(path, make([]byte, 2048), 0644)
	assert.Nil(t, err)

	var reported []int
	record, err := client.UploadFile(123, path, func(percent int) {
		reported = append(reported, percent)
	}, nil)
	assert.Nil(t, err)
	assert.Equal(t, "dataset.zip", record.Filename)
	assert.Equal(t, int64(2048), record.Filesize)
	assert.NotEmpty(t, reported)
	assert.Equal(t, 100, reported[len(reported)-1])
}

// tests that publishing hits the publish action endpoint
func TestPublishDeposition(t *testing.T) {
	client := newTestClient(t, newFakeRepository(t))
	deposition, err := client.PublishDeposition(123)
	assert.Nil(t, err)
	assert.True(t, deposition.Submitted)
}

// tests the metadata dry run: create then delete
func TestTestMetadata(t *testing.T) {
	client := newTestClient(t, newFakeRepository(t))
	accepted, message, orphanId := client.TestMetadata(testMetadata())
	assert.True(t, accepted)
	assert.Contains(t, message, "accepted")
	assert.Equal(t, int64(0), orphanId)
}

// tests that a failed cleanup after a successful dry run surfaces a
// manual-cleanup warning with the surviving deposition id
func TestTestMetadataCleanupFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/deposit/depositions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 77, "links": {}}`)
	})
	mux.HandleFunc("DELETE /api/deposit/depositions/77", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server)
	accepted, message, orphanId := client.TestMetadata(testMetadata())
	assert.True(t, accepted)
	assert.Contains(t, message, "manually")
	assert.Equal(t, int64(77), orphanId)
}

// tests the user-facing error taxonomy for HTTP error statuses
func TestErrorTaxonomy(t *testing.T) {
	statuses := map[int]string{
		http.StatusUnauthorized:          "Invalid access token",
		http.StatusForbidden:             "Insufficient permissions",
		http.StatusNotFound:              "not found",
		http.StatusConflict:              "conflict",
		http.StatusRequestEntityTooLarge: "File too large",
	}
	for status, substring := range statuses {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		server := httptest.NewServer(mux)
		client := newTestClient(t, server)

		_, err := client.GetDeposition(1)
		assert.NotNil(t, err)
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, status, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, substring)
		server.Close()
	}
}

// tests that 400 responses with a structured error body surface field-level
// validation details
func TestBadRequestDetailExtraction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "Validation error",
			"errors": [{"field": "metadata.title", "message": "Missing data for required field."}]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.CreateDeposition(testMetadata())
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "metadata.title")
	assert.Contains(t, err.Error(), "Missing data for required field")
}

// tests that transient server errors are retried and eventually succeed
func TestTransientErrorRetry(t *testing.T) {
	failures := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/deposit/depositions/123", func(w http.ResponseWriter, r *http.Request) {
		if failures < 1 {
			failures++
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"id": 123, "state": "unsubmitted", "links": {}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server)
	deposition, err := client.GetDeposition(123)
	assert.Nil(t, err)
	assert.Equal(t, int64(123), deposition.Id)
	assert.Equal(t, 1, failures)
}

// tests that a transport timeout surfaces as a TimeoutError rather than a
// generic APIError
func TestTimeoutSurfacesTimeoutError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClientWithOptions("test-token", true, ClientOptions{
		BaseURL:    server.URL + "/api",
		APITimeout: 50 * time.Millisecond,
	})
	assert.Nil(t, err)

	_, err = client.GetDeposition(123)
	assert.NotNil(t, err)
	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "get deposition", timeoutErr.Operation)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr),
		"a timeout must not be reported as an API error")
}
