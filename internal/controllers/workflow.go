package controllers

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"clearview/internal/logger"
	"clearview/internal/models"
	"clearview/internal/services"

	"github.com/google/uuid"
)

const component = "WorkflowController"

// Dispatcher runs fn on the UI event loop
type Dispatcher func(fn func())

// Renderer draws a session snapshot. It never writes workflow state.
type Renderer interface {
	Render(session models.Session)
	ClearFileSelection()
}

// Downloader writes the result image to a destination
type Downloader interface {
	Save(w io.Writer, resultURL string, source *models.SourceImage) error
	SuggestedFilename(resultURL string) string
}

// Options carries the collaborators of a WorkflowController. Context, when
// set, bounds every edit request in addition to RequestTimeout.
type Options struct {
	Context        context.Context
	Decoder        services.ImageDecoder
	Editor         services.Editor
	Downloader     Downloader
	Dispatch       Dispatcher
	Logger         logger.Logger
	RequestTimeout time.Duration
	NewSessionID   func() string
}

// WorkflowController owns the Idle -> Preview -> Processing -> Result state
// machine. Every method except the edit goroutine runs on the UI event loop,
// so the session needs no lock.
type WorkflowController struct {
	decoder    services.ImageDecoder
	editor     services.Editor
	downloader Downloader
	dispatch   Dispatcher
	logger     logger.Logger
	timeout    time.Duration
	newID      func() string

	session  models.Session
	renderer Renderer

	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
}

func NewWorkflowController(opts Options) *WorkflowController {
	if opts.Logger == nil {
		opts.Logger = logger.NoOp{}
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}
	if opts.NewSessionID == nil {
		opts.NewSessionID = uuid.NewString
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}

	if opts.Context == nil {
		opts.Context = context.Background()
	}

	ctx, cancel := context.WithCancel(opts.Context)
	wc := &WorkflowController{
		decoder:    opts.Decoder,
		editor:     opts.Editor,
		downloader: opts.Downloader,
		dispatch:   opts.Dispatch,
		logger:     opts.Logger,
		timeout:    opts.RequestTimeout,
		newID:      opts.NewSessionID,
		ctx:        ctx,
		cancel:     cancel,
	}
	wc.session = models.Session{ID: wc.newID(), State: models.StateIdle}
	return wc
}

// SetRenderer attaches the view and draws the current session
func (wc *WorkflowController) SetRenderer(r Renderer) {
	wc.renderer = r
	wc.render()
}

// Session returns the current snapshot
func (wc *WorkflowController) Session() models.Session {
	return wc.session
}

// SelectImage validates and decodes file, moving to Preview on success.
// Failures leave the state unchanged and set the error message.
func (wc *WorkflowController) SelectImage(file models.FileInput) error {
	if !services.IsImageType(file.MimeType) {
		return wc.fail(models.NewWorkflowError(models.InvalidFileType, "select_image",
			errors.New("declared content type "+quoteOrEmpty(file.MimeType)+" is not an image")), map[string]interface{}{
			"file": file.Name,
		})
	}

	source, err := wc.decoder.Decode(file)
	if err != nil {
		return wc.fail(models.NewWorkflowError(models.FileReadFailure, "select_image", err), map[string]interface{}{
			"file": file.Name,
		})
	}

	wc.apply(models.ImageSelected{Source: source})
	wc.logger.Info(component, "image selected", map[string]interface{}{
		"session": wc.session.ID,
		"file":    source.Name,
		"mime":    source.MimeType,
		"bytes":   len(source.RawBytes),
		"width":   source.Width,
		"height":  source.Height,
	})
	return nil
}

// StartProcessing sends the selected image to the editor. It is ignored
// unless the session is in Preview; the switch to Processing happens before
// the request is issued.
func (wc *WorkflowController) StartProcessing() bool {
	if wc.session.State != models.StatePreview || wc.session.Source == nil {
		wc.logger.Debug(component, "start processing ignored", map[string]interface{}{
			"session": wc.session.ID,
			"state":   wc.session.State.String(),
		})
		return false
	}

	wc.apply(models.ProcessingStarted{})

	generation := wc.session.Generation
	source := *wc.session.Source
	sessionID := wc.session.ID

	wc.logger.Info(component, "edit request issued", map[string]interface{}{
		"session":    sessionID,
		"generation": generation,
		"mime":       source.MimeType,
	})

	wc.inflight.Add(1)
	go func() {
		defer wc.inflight.Done()

		ctx, cancel := context.WithTimeout(wc.ctx, wc.timeout)
		defer cancel()

		start := time.Now()
		encoded, err := wc.editor.Edit(ctx, source.EncodedBytes, source.MimeType)
		elapsed := time.Since(start)

		wc.dispatch(func() {
			wc.completeProcessing(sessionID, generation, encoded, err, elapsed)
		})
	}()

	return true
}

func (wc *WorkflowController) completeProcessing(sessionID string, generation uint64, encoded string, err error, elapsed time.Duration) {
	var action models.Action
	if err != nil {
		wfErr := models.NewWorkflowError(models.EditRequestFailure, "start_processing", err)
		action = models.ProcessingFailed{Generation: generation, Message: wfErr.UserMessage()}
	} else {
		action = models.ProcessingSucceeded{Generation: generation, EncodedBytes: encoded}
	}

	fields := map[string]interface{}{
		"session":    sessionID,
		"generation": generation,
		"elapsed_ms": elapsed.Milliseconds(),
	}

	if !wc.apply(action) {
		fields["current_session"] = wc.session.ID
		fields["current_generation"] = wc.session.Generation
		wc.logger.Warning(component, "discarding stale edit response", fields)
		return
	}

	if err != nil {
		wc.logger.Error(component, err, fields)
		return
	}
	wc.logger.Info(component, "edit request completed", fields)
}

// Reset returns to Idle from any state. An outstanding edit keeps running
// but its response will be discarded.
func (wc *WorkflowController) Reset() {
	previous := wc.session.State
	wc.apply(models.ResetRequested{SessionID: wc.newID()})
	if wc.renderer != nil {
		wc.renderer.ClearFileSelection()
	}

	wc.logger.Info(component, "session reset", map[string]interface{}{
		"session": wc.session.ID,
		"from":    previous.String(),
	})
}

// DismissError clears the error notice without changing state
func (wc *WorkflowController) DismissError() {
	wc.apply(models.ErrorDismissed{})
}

// SuggestedFilename names the download for the current result
func (wc *WorkflowController) SuggestedFilename() string {
	if wc.downloader == nil {
		return ""
	}
	return wc.downloader.SuggestedFilename(wc.session.ResultURL)
}

// Download writes the result image to w. It is only valid in Result.
func (wc *WorkflowController) Download(w io.Writer) error {
	if !wc.session.HasResult() {
		return wc.fail(models.NewWorkflowError(models.DownloadFailure, "download",
			errors.New("no result available")), nil)
	}
	if wc.downloader == nil {
		return wc.fail(models.NewWorkflowError(models.DownloadFailure, "download",
			errors.New("no downloader configured")), nil)
	}

	if err := wc.downloader.Save(w, wc.session.ResultURL, wc.session.Source); err != nil {
		return wc.fail(models.NewWorkflowError(models.DownloadFailure, "download", err), nil)
	}
	return nil
}

// Shutdown cancels an outstanding edit request and waits for it to return
func (wc *WorkflowController) Shutdown() {
	wc.cancel()
	wc.inflight.Wait()
}

// apply runs the reducer, stores and renders the result. It reports whether
// the action changed the session.
func (wc *WorkflowController) apply(action models.Action) bool {
	next := models.Reduce(wc.session, action)
	if next == wc.session {
		return false
	}

	previous := wc.session.State
	wc.session = next
	if previous != next.State {
		wc.logger.Debug(component, "state changed", map[string]interface{}{
			"session": next.ID,
			"from":    previous.String(),
			"to":      next.State.String(),
			"action":  models.ActionName(action),
		})
	}

	wc.render()
	return true
}

func (wc *WorkflowController) fail(err *models.WorkflowError, fields map[string]interface{}) error {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["session"] = wc.session.ID
	fields["kind"] = err.Kind.String()
	wc.logger.Error(component, err, fields)

	if err.Kind == models.DownloadFailure {
		wc.apply(models.ErrorRaised{Message: err.UserMessage()})
	} else {
		wc.apply(models.SelectionFailed{Message: err.UserMessage()})
	}
	return err
}

func (wc *WorkflowController) render() {
	if wc.renderer != nil {
		wc.renderer.Render(wc.session)
	}
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return `"` + s + `"`
}
