package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Widget is the home-page search widget. It holds the search mode, the text
// query and at most one uploaded image. All methods are safe for concurrent
// use; state changes are serialized and side effects run after the state
// lock is released.
type Widget struct {
	nav           Navigator
	notifier      Notifier
	decoder       Decoder
	logger        *slog.Logger
	decodeTimeout time.Duration

	mu     sync.Mutex
	mode   Mode
	query  string
	image  upload
	gen    uint64
	cancel context.CancelFunc

	inflight sync.WaitGroup
}

// Option configures a Widget.
type Option func(*Widget)

// WithDecoder replaces the default DataURLDecoder.
func WithDecoder(d Decoder) Option {
	return func(w *Widget) { w.decoder = d }
}

// WithLogger sets the logger; the default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// WithDecodeTimeout bounds each decode. A decode that exceeds it fails. Zero
// disables the bound.
func WithDecodeTimeout(d time.Duration) Option {
	return func(w *Widget) { w.decodeTimeout = d }
}

// New returns a widget in text mode with no image.
func New(nav Navigator, notifier Notifier, opts ...Option) *Widget {
	w := &Widget{
		nav:      nav,
		notifier: notifier,
		decoder:  DataURLDecoder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Widget) notify(n Notification) {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(n)
}

// Snapshot returns a copy of the current state.
func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Mode:       w.mode,
		Query:      w.query,
		Status:     w.image.status,
		FileName:   w.image.name,
		MediaType:  w.image.mediaType,
		Size:       len(w.image.file),
		Preview:    w.image.preview,
		Generation: w.gen,
	}
}

// ToggleMode switches between text and image mode. The query and any held
// image are left untouched.
func (w *Widget) ToggleMode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mode == ModeText {
		w.mode = ModeImage
	} else {
		w.mode = ModeText
	}
	return w.mode
}

// SetQuery records the text query as typed.
func (w *Widget) SetQuery(q string) {
	w.mu.Lock()
	w.query = q
	w.mu.Unlock()
}

// SubmitTextSearch records query and navigates to the results page with the
// trimmed query as the search parameter.
func (w *Widget) SubmitTextSearch(query string) error {
	w.SetQuery(query)
	term := strings.TrimSpace(query)
	if term == "" {
		w.notify(errorNote(MsgEnterSearchTerm))
		return ErrEmptyQuery
	}
	w.logger.Debug("text search", "query", term)
	if w.nav != nil {
		w.nav.Navigate(ResultsPath, []Param{{Key: "search", Value: term}})
	}
	return nil
}

// SubmitImageSearch dispatches a search with the held image. Matching has no
// backend yet: with a ready image it returns ErrImageSearchUnimplemented.
func (w *Widget) SubmitImageSearch() error {
	snap := w.Snapshot()
	if snap.Status != StatusReady {
		w.notify(errorNote(MsgUploadFirst))
		return ErrNoImage
	}
	w.logger.Warn("image search not implemented", "file", snap.FileName, "type", snap.MediaType, "bytes", snap.Size)
	return ErrImageSearchUnimplemented
}

// AcceptFiles runs the intake pipeline on the first offered file; the rest
// are ignored.
func (w *Widget) AcceptFiles(files ...Candidate) Status {
	if len(files) == 0 {
		return w.Snapshot().Status
	}
	if len(files) > MaxFiles {
		w.logger.Debug("ignoring extra files", "offered", len(files), "max", MaxFiles)
	}
	return w.AcceptFile(files[0])
}

// AcceptFile validates c and, if it passes, replaces any held image and
// starts decoding it. Rejections leave the state unchanged and are reported
// through the Notifier. The returned status is the state after the call.
func (w *Widget) AcceptFile(c Candidate) Status {
	mediaType, err := Check(c)
	if err != nil {
		w.logger.Info("candidate rejected", "file", c.Name, "size", c.size(), "type", mediaType, "err", err)
		w.notify(errorNote(rejectionMessage(err)))
		return w.Snapshot().Status
	}
	if !MatchesAcceptPattern(c.Name) {
		w.logger.Debug("accepted file without image extension", "file", c.Name, "type", mediaType)
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if w.decodeTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), w.decodeTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.gen++
	gen := w.gen
	w.cancel = cancel
	w.image = upload{
		name:      c.Name,
		mediaType: mediaType,
		file:      c.Data,
		status:    StatusDecoding,
	}
	w.inflight.Add(1)
	w.mu.Unlock()

	go w.decode(ctx, gen, Payload{Name: c.Name, MediaType: mediaType, Data: c.Data})
	return StatusDecoding
}

type decodeResult struct {
	preview string
	err     error
}

func (w *Widget) decode(ctx context.Context, gen uint64, p Payload) {
	defer w.inflight.Done()

	done := make(chan decodeResult, 1)
	go func() {
		preview, err := w.decoder.Decode(ctx, p)
		done <- decodeResult{preview: preview, err: err}
	}()

	var res decodeResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if res.err == nil && res.preview == "" {
		res.err = errEmptyPayload
	}

	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		w.logger.Debug("discarding stale decode", "file", p.Name, "generation", gen)
		return
	}
	w.cancel()
	w.cancel = nil
	if res.err != nil {
		w.image.status = StatusFailed
		w.image.preview = Absent()
	} else {
		w.image.status = StatusReady
		w.image.preview = Encoded(res.preview)
	}
	w.mu.Unlock()

	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) {
			w.logger.Warn("image decode timed out", "file", p.Name, "timeout", w.decodeTimeout)
		} else {
			w.logger.Info("image decode failed", "file", p.Name, "err", res.err)
		}
		w.notify(errorNote(MsgReadFailed))
		return
	}
	w.notify(successNote(MsgUploaded))
}

// RemoveImage discards the held image and its preview. Any decode still in
// flight is cancelled and its result ignored.
func (w *Widget) RemoveImage() error {
	w.mu.Lock()
	if w.image.status == StatusEmpty {
		w.mu.Unlock()
		return ErrNothingToRemove
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.gen++
	w.image = upload{}
	w.mu.Unlock()

	w.notify(infoNote(MsgRemoved))
	return nil
}

// Wait blocks until every decode started so far has finished.
func (w *Widget) Wait() {
	w.inflight.Wait()
}

// Close cancels any decode in flight.
func (w *Widget) Close() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.gen++
	w.mu.Unlock()
}
