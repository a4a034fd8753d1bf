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

// This package orchestrates the upload workflow: validate file, validate
// metadata, create a deposition, stream the file to its bucket, and
// optionally publish. One session may be active per Manager at a time.
package upload

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/danielnrainer/ZEDD/metadata"
	"github.com/danielnrainer/ZEDD/validation"
	"github.com/danielnrainer/ZEDD/zenodo"
)

// the phases of an upload session
type Status int

const (
	Idle Status = iota
	Validating
	CreatingDeposition
	Uploading
	Publishing
	Completed
	Cancelled
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case CreatingDeposition:
		return "creating deposition"
	case Uploading:
		return "uploading"
	case Publishing:
		return "publishing"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// returns true for states in which a session is underway
func (s Status) active() bool {
	switch s {
	case Validating, CreatingDeposition, Uploading, Publishing:
		return true
	}
	return false
}

// receives overall progress as an integer percentage in [0, 100]
type ProgressFunc func(percent int)

// receives human-readable phase descriptions
type StatusFunc func(message string)

// The repository operations the orchestrator needs. Implemented by
// zenodo.Client; test fixtures provide scripted implementations.
type Repository interface {
	CreateDeposition(md metadata.DepositionMetadata) (zenodo.Deposition, error)
	UploadFile(depositionId int64, filePath string, progress func(int),
		cancelled func() bool) (zenodo.DepositionFile, error)
	PublishDeposition(depositionId int64) (zenodo.Deposition, error)
}

// This type runs upload sessions against a repository. The mutex guards the
// status field and cancellation flag, which are the only shared mutable
// state; the repository client itself is read-mostly and safe to share.
type Manager struct {
	repository Repository

	mutex           sync.Mutex
	status          Status
	cancelRequested bool
	// the deposition created for the active session (0 outside a session)
	depositionId int64
	// correlates journal records and log lines for one session
	sessionId uuid.UUID
}

func NewManager(repository Repository) *Manager {
	return &Manager{repository: repository}
}

// the fixed overall progress milestones
const (
	progressFileChecked     = 5
	progressMetadataChecked = 10
	progressDepositionMade  = 20
	// the file transfer's own 0-100% maps linearly onto 20-85
	progressUploadSpan = 65
	progressPublishing = 90
	progressDone       = 100
)

// Runs one upload session: validate the file, validate the metadata, create
// a deposition, stream the file to it, and publish if requested (otherwise
// the deposition remains a draft). Returns the resulting deposition, or an
// UploadError describing the phase at which the session failed. Returns an
// InProgressError if a session is already active. Cancellation leaves any
// created deposition on the server as an orphaned draft; no cleanup is
// attempted.
func (m *Manager) Upload(md metadata.DepositionMetadata, filePath string, publish bool,
	progress ProgressFunc, status StatusFunc) (zenodo.Deposition, error) {
	m.mutex.Lock()
	if m.status.active() {
		m.mutex.Unlock()
		return zenodo.Deposition{}, &InProgressError{}
	}
	m.status = Validating
	m.cancelRequested = false
	m.depositionId = 0
	m.sessionId = uuid.New()
	m.mutex.Unlock()

	deposition, err := m.runSession(md, filePath, publish, progress, status)
	if err != nil {
		phase := m.phase()
		if zenodo.IsCancelled(err) {
			m.setStatus(Cancelled)
			return deposition, &UploadError{Phase: phase, Err: err,
				Message: "Upload cancelled by user"}
		}
		m.setStatus(Failed)
		return deposition, &UploadError{Phase: phase, Err: err,
			Message: fmt.Sprintf("Upload failed: %s", err)}
	}
	m.setStatus(Completed)
	return deposition, nil
}

// runs the fixed step sequence for one session
func (m *Manager) runSession(md metadata.DepositionMetadata, filePath string, publish bool,
	progress ProgressFunc, status StatusFunc) (zenodo.Deposition, error) {
	var deposition zenodo.Deposition

	// step 1: validate the file
	m.report(status, "Validating file...")
	m.reportProgress(progress, progressFileChecked)
	if m.cancelled() {
		return deposition, &zenodo.CancelledError{}
	}
	if ok, detail := validation.File(filePath); !ok {
		return deposition, fmt.Errorf("File validation failed: %s", detail)
	}

	// step 2: validate the metadata
	m.report(status, "Validating metadata...")
	m.reportProgress(progress, progressMetadataChecked)
	if m.cancelled() {
		return deposition, &zenodo.CancelledError{}
	}
	if ok, problems := validation.Metadata(md); !ok {
		detail := ""
		for _, problem := range problems {
			detail += "\n" + problem
		}
		return deposition, fmt.Errorf("Metadata validation failed:%s", detail)
	}

	// step 3: create the deposition
	m.setStatus(CreatingDeposition)
	m.report(status, "Creating deposition...")
	m.reportProgress(progress, progressDepositionMade)
	if m.cancelled() {
		return deposition, &zenodo.CancelledError{}
	}
	deposition, err := m.repository.CreateDeposition(md)
	if err != nil {
		return deposition, err
	}
	m.mutex.Lock()
	m.depositionId = deposition.Id
	sessionId := m.sessionId
	m.mutex.Unlock()
	slog.Info("created deposition",
		"session", sessionId.String(), "deposition", deposition.Id)

	// step 4: upload the file, mapping its 0-100% onto 20-85
	m.setStatus(Uploading)
	m.report(status, fmt.Sprintf("Uploading %s...", filepath.Base(filePath)))
	if m.cancelled() {
		return deposition, &zenodo.CancelledError{}
	}
	_, err = m.repository.UploadFile(deposition.Id, filePath, func(filePercent int) {
		overall := progressDepositionMade + filePercent*progressUploadSpan/100
		m.reportProgress(progress, overall)
	}, m.cancelled)
	if err != nil {
		return deposition, err
	}

	// step 5: publish if requested; otherwise the deposition stays a draft
	if publish {
		m.setStatus(Publishing)
		m.report(status, "Publishing deposition...")
		m.reportProgress(progress, progressPublishing)
		if m.cancelled() {
			return deposition, &zenodo.CancelledError{}
		}
		deposition, err = m.repository.PublishDeposition(deposition.Id)
		if err != nil {
			return deposition, err
		}
		m.reportProgress(progress, progressDone)
		m.report(status, "Upload completed and published!")
	} else {
		m.reportProgress(progress, progressDone)
		m.report(status, "Upload completed (draft).")
	}
	return deposition, nil
}

// Requests cancellation of the active session. The flag is polled at step
// boundaries and before every upload chunk; an HTTP request already in
// flight only aborts at the next chunk boundary. No-op outside a session.
func (m *Manager) Cancel() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.status.active() {
		m.cancelRequested = true
	}
}

// the status of the current (or most recent) session
func (m *Manager) Status() Status {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.status
}

// returns true while a session is underway
func (m *Manager) InProgress() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.status.active()
}

// The id of the deposition created for the current session, or 0. After a
// cancellation or failure this identifies the orphaned draft the user may
// want to delete manually.
func (m *Manager) DepositionId() int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.depositionId
}

func (m *Manager) cancelled() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.cancelRequested
}

func (m *Manager) phase() Status {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.status
}

// Moves to a new status. On completion the deposition id is cleared (the
// caller holds the returned deposition); after a cancellation or failure it
// stays set so the orphaned draft can be identified.
func (m *Manager) setStatus(status Status) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.status = status
	if status == Completed {
		m.depositionId = 0
	}
}

// Invokes the status callback, swallowing panics: a misbehaving callback
// must never abort an upload. Suppressed once cancellation is requested.
func (m *Manager) report(status StatusFunc, message string) {
	if status == nil || m.cancelled() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("status callback panicked", "error", fmt.Sprintf("%v", r))
		}
	}()
	status(message)
}

// invokes the progress callback under the same contract
func (m *Manager) reportProgress(progress ProgressFunc, percent int) {
	if progress == nil || m.cancelled() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("progress callback panicked", "error", fmt.Sprintf("%v", r))
		}
	}()
	progress(percent)
}
