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

// This package wraps the Zenodo deposition REST API: deposition CRUD, binary
// file upload to a deposition's bucket, publishing, and the read-only
// license/community/deposition queries.
package zenodo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/danielnrainer/ZEDD/metadata"
)

const (
	productionBaseURL = "https://zenodo.org/api"
	sandboxBaseURL    = "https://sandbox.zenodo.org/api"

	// chunk size for streaming uploads
	defaultChunkSize = 8192
	// transient failures are retried this many times (JSON calls only)
	maxRetries = 3

	defaultAPITimeout = 30 * time.Second
	// large-file uploads can legitimately take this long
	defaultUploadTimeout = 600 * time.Second
)

// a deposition: a draft unit of record on the repository, identified by a
// server-assigned id
type Deposition struct {
	Id        int64            `json:"id"`
	State     string           `json:"state"`
	Submitted bool             `json:"submitted"`
	Title     string           `json:"title"`
	Links     Links            `json:"links"`
	Files     []DepositionFile `json:"files"`
}

// the hypermedia links attached to a deposition; Bucket is the per-deposition
// storage endpoint targeted by binary uploads
type Links struct {
	Bucket string `json:"bucket"`
	Html   string `json:"html"`
	Record string `json:"record_html"`
	Self   string `json:"self"`
}

// a file attached to a deposition
type DepositionFile struct {
	Id       string `json:"id"`
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Checksum string `json:"checksum"`
}

// a license accepted by the repository
type License struct {
	Id    string
	Title string
	Url   string
}

// a community a deposition can be submitted to
type Community struct {
	Id    string
	Title string
}

// tunable client parameters; zero values select the defaults above
type ClientOptions struct {
	// overrides the production/sandbox base URL (used by tests)
	BaseURL       string
	APITimeout    time.Duration
	UploadTimeout time.Duration
	ChunkSize     int
}

// This type mediates all traffic with the repository. Its HTTP clients and
// their retry policy are shared read-mostly across calls; the client itself
// holds no per-upload state.
type Client struct {
	baseURL   *url.URL
	token     string
	chunkSize int
	// client for JSON API calls (short timeout, retried)
	api http.Client
	// client for the binary bucket PUT (long timeout, single attempt)
	uploader http.Client
}

// Creates a repository client for the given access token. The sandbox flag
// selects the sandbox instance by base URL; tokens are instance-specific but
// otherwise identical in format.
func NewClient(accessToken string, sandbox bool) (*Client, error) {
	return NewClientWithOptions(accessToken, sandbox, ClientOptions{})
}

func NewClientWithOptions(accessToken string, sandbox bool, options ClientOptions) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("No access token was given")
	}

	base := options.BaseURL
	if base == "" {
		if sandbox {
			base = sandboxBaseURL
		} else {
			base = productionBaseURL
		}
	}
	baseURL, err := url.ParseRequestURI(base)
	if err != nil {
		return nil, fmt.Errorf("Invalid repository base URL %s: %w", base, err)
	}

	apiTimeout := options.APITimeout
	if apiTimeout == 0 {
		apiTimeout = defaultAPITimeout
	}
	uploadTimeout := options.UploadTimeout
	if uploadTimeout == 0 {
		uploadTimeout = defaultUploadTimeout
	}
	chunkSize := options.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}

	return &Client{
		baseURL:   baseURL,
		token:     accessToken,
		chunkSize: chunkSize,
		api:       secureHttpClient(apiTimeout),
		uploader:  secureHttpClient(uploadTimeout),
	}, nil
}

// builds the absolute URL for an API resource
func (c *Client) resourceURL(resource string, values url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + resource
	if values != nil {
		u.RawQuery = values.Encode()
	}
	return u.String()
}

// Performs a JSON request against the given resource, retrying transient
// failures, and returns the response body for 2xx statuses or a typed error
// otherwise. The operation string appears in error messages.
func (c *Client) request(operation, method, resource string, values url.Values, body []byte) ([]byte, error) {
	target := c.resourceURL(resource, values)
	slog.Debug(fmt.Sprintf("%s: %s", method, target))

	makeRequest := func() (*http.Request, error) {
		var reader io.Reader = http.NoBody
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequest(method, target, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}

	resp, err := doWithRetry(&c.api, operation, makeRequest)
	if err != nil {
		return nil, translateTransportError(operation, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			Operation: operation,
			Message:   fmt.Sprintf("Network error during %s: %s", operation, err),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(operation, resp.StatusCode, data)
	}
	return data, nil
}

// wraps transport-level failures that escaped the retry loop
func translateTransportError(operation string, err error) error {
	switch err.(type) {
	case *APIError, *TimeoutError:
		return err
	}
	return &APIError{
		Operation: operation,
		Message:   fmt.Sprintf("Network error during %s: %s", operation, err),
	}
}

// Builds a typed error from an HTTP error response. For 400s, validation
// details are extracted from the structured error body when present.
func apiError(operation string, statusCode int, body []byte) error {
	var detail string
	if statusCode == http.StatusBadRequest {
		var errorBody struct {
			Message string `json:"message"`
			Errors  []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"errors"`
		}
		if err := json.Unmarshal(body, &errorBody); err == nil && len(errorBody.Errors) > 0 {
			detail = "Validation errors:\n"
			for _, fieldError := range errorBody.Errors {
				detail += fmt.Sprintf("  - %s: %s\n", fieldError.Field, fieldError.Message)
			}
		}
	}
	return &APIError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    messageForStatus(operation, statusCode, detail),
	}
}

// the envelope the deposition API expects around metadata
type depositionRequest struct {
	Metadata metadata.DepositionMetadata `json:"metadata"`
}

// Creates a new deposition draft carrying the given metadata, returning the
// deposition with its server-assigned id and links.
func (c *Client) CreateDeposition(md metadata.DepositionMetadata) (Deposition, error) {
	var deposition Deposition
	body, err := json.Marshal(depositionRequest{Metadata: md})
	if err != nil {
		return deposition, err
	}
	data, err := c.request("create deposition", http.MethodPost, "deposit/depositions", nil, body)
	if err != nil {
		return deposition, err
	}
	err = json.Unmarshal(data, &deposition)
	return deposition, err
}

// fetches an existing deposition by id
func (c *Client) GetDeposition(depositionId int64) (Deposition, error) {
	var deposition Deposition
	resource := fmt.Sprintf("deposit/depositions/%d", depositionId)
	data, err := c.request("get deposition", http.MethodGet, resource, nil, nil)
	if err != nil {
		return deposition, err
	}
	err = json.Unmarshal(data, &deposition)
	return deposition, err
}

// replaces the metadata on an unpublished deposition draft
func (c *Client) UpdateDeposition(depositionId int64, md metadata.DepositionMetadata) (Deposition, error) {
	var deposition Deposition
	body, err := json.Marshal(depositionRequest{Metadata: md})
	if err != nil {
		return deposition, err
	}
	resource := fmt.Sprintf("deposit/depositions/%d", depositionId)
	data, err := c.request("update deposition", http.MethodPut, resource, nil, body)
	if err != nil {
		return deposition, err
	}
	err = json.Unmarshal(data, &deposition)
	return deposition, err
}

// Deletes an unpublished deposition draft. Deleting a published deposition
// is refused by the repository and surfaces as a permission error.
func (c *Client) DeleteDeposition(depositionId int64) error {
	resource := fmt.Sprintf("deposit/depositions/%d", depositionId)
	_, err := c.request("delete deposition", http.MethodDelete, resource, nil, nil)
	return err
}

// Publishes a deposition, finalizing it into a publicly citable record. This
// is irreversible; callers must obtain the user's explicit consent first.
func (c *Client) PublishDeposition(depositionId int64) (Deposition, error) {
	var deposition Deposition
	resource := fmt.Sprintf("deposit/depositions/%d/actions/publish", depositionId)
	data, err := c.request("publish deposition", http.MethodPost, resource, nil, nil)
	if err != nil {
		return deposition, err
	}
	err = json.Unmarshal(data, &deposition)
	return deposition, err
}

// Uploads the file at the given path to the deposition's bucket, streaming
// it in fixed-size chunks. The progress callback (if non-nil) receives
// percentages in [0, 100]; the cancellation predicate (if non-nil) is
// checked before every chunk and aborts the transfer mid-stream when it
// returns true. The PUT is made in a single attempt so a partially-consumed
// stream is never re-sent.
func (c *Client) UploadFile(depositionId int64, filePath string,
	progress func(int), cancelled func() bool) (DepositionFile, error) {
	var record DepositionFile

	// fetch the deposition to obtain its bucket URL
	deposition, err := c.GetDeposition(depositionId)
	if err != nil {
		return record, err
	}
	if deposition.Links.Bucket == "" {
		return record, &APIError{
			Operation: "upload file",
			Message:   fmt.Sprintf("Deposition %d has no bucket link", depositionId),
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return record, fmt.Errorf("Couldn't open %s: %w", filePath, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return record, err
	}

	reader := newProgressReader(file, info.Size(), c.chunkSize, progress, cancelled)
	defer reader.Close()

	filename := filepath.Base(filePath)
	target := fmt.Sprintf("%s/%s", deposition.Links.Bucket, filename)
	slog.Debug(fmt.Sprintf("PUT: %s (%d bytes)", target, info.Size()))

	req, err := http.NewRequest(http.MethodPut, target, reader)
	if err != nil {
		return record, err
	}
	// bearer auth (not query-parameter auth) to stay compatible with the
	// bucket API
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = info.Size()

	resp, err := c.uploader.Do(req)
	if err != nil {
		if IsCancelled(err) {
			return record, &CancelledError{}
		}
		if isTimeout(err) {
			return record, &TimeoutError{Operation: "upload file"}
		}
		return record, &APIError{
			Operation: "upload file",
			Message:   fmt.Sprintf("Network error during upload file: %s", err),
		}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return record, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return record, apiError("upload file", resp.StatusCode, data)
	}

	// the bucket API reports the stored object's key, md5 checksum, and size
	var stored struct {
		Key      string `json:"key"`
		Checksum string `json:"checksum"`
		Size     int64  `json:"size"`
		Id       string `json:"version_id"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return record, err
	}
	record = DepositionFile{
		Id:       stored.Id,
		Filename: stored.Key,
		Filesize: stored.Size,
		Checksum: stored.Checksum,
	}
	return record, nil
}

// retrieves the licenses the repository accepts
func (c *Client) GetLicenses() ([]License, error) {
	data, err := c.request("get licenses", http.MethodGet, "licenses", nil, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Hits struct {
			Hits []struct {
				Id       string `json:"id"`
				Metadata struct {
					Title string `json:"title"`
					Url   string `json:"url"`
				} `json:"metadata"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	licenses := make([]License, len(body.Hits.Hits))
	for i, hit := range body.Hits.Hits {
		licenses[i] = License{Id: hit.Id, Title: hit.Metadata.Title, Url: hit.Metadata.Url}
	}
	return licenses, nil
}

// searches for communities matching the given query string
func (c *Client) SearchCommunities(query string) ([]Community, error) {
	p := url.Values{}
	p.Add("q", query)
	p.Add("type", "community")
	p.Add("page", "1")
	p.Add("size", "20")
	p.Add("communities", "*")

	data, err := c.request("search communities", http.MethodGet, "records", p, nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Hits struct {
			Hits []struct {
				Id    json.Number `json:"id"`
				Title string      `json:"title"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	communities := make([]Community, len(body.Hits.Hits))
	for i, hit := range body.Hits.Hits {
		communities[i] = Community{Id: hit.Id.String(), Title: hit.Title}
	}
	return communities, nil
}

// Lists the user's depositions. Also serves as a connectivity and token
// probe: a successful (even empty) listing proves the token works.
func (c *Client) ListDepositions(page, size int) ([]Deposition, error) {
	p := url.Values{}
	p.Add("page", strconv.Itoa(page))
	p.Add("size", strconv.Itoa(size))
	data, err := c.request("list depositions", http.MethodGet, "deposit/depositions", p, nil)
	if err != nil {
		return nil, err
	}
	var depositions []Deposition
	err = json.Unmarshal(data, &depositions)
	return depositions, err
}

// Dry-runs the given metadata against the repository by creating a draft
// deposition and immediately deleting it. Returns whether the metadata was
// accepted, a human-readable message, and the id of a draft that survived a
// failed cleanup (0 otherwise) so users can remove it manually.
func (c *Client) TestMetadata(md metadata.DepositionMetadata) (bool, string, int64) {
	deposition, err := c.CreateDeposition(md)
	if err != nil {
		return false, err.Error(), 0
	}
	if err := c.DeleteDeposition(deposition.Id); err != nil {
		return true, fmt.Sprintf(
			"Metadata accepted, but the test deposition %d could not be deleted: %s. "+
				"Please remove it manually.", deposition.Id, err), deposition.Id
	}
	return true, "Metadata accepted by the repository.", 0
}
