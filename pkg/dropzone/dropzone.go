// Package dropzone turns a watched directory into a file picker: files that
// land in it are offered, one per event, to a search widget's intake pipeline.
package dropzone

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"carz/pkg/search"

	"github.com/fsnotify/fsnotify"
)

// Watcher debounces filesystem events in Dir and hands each settled image
// file to a handler.
type Watcher struct {
	Dir string
	// Tick is how often pending files are checked. Settle is how long a file
	// must go without events before it is offered.
	Tick   time.Duration
	Settle time.Duration
	Logger *slog.Logger
}

// New returns a watcher with the default debounce timings.
func New(dir string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{Dir: dir, Tick: 250 * time.Millisecond, Settle: 300 * time.Millisecond, Logger: logger}
}

// Run blocks until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context, handle func(search.Candidate)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.Logger.Info("watching drop zone", "dir", w.Dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(w.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !search.MatchesAcceptPattern(name) {
				w.Logger.Debug("ignoring file", "file", name)
				continue
			}
			pending[name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) <= w.Settle {
					continue
				}
				delete(pending, name)
				c, err := Load(filepath.Join(w.Dir, name))
				if err != nil {
					w.Logger.Warn("read dropped file", "file", name, "err", err)
					continue
				}
				handle(c)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "err", err)
		}
	}
}

// Load reads path into a candidate. Files over the size limit are not read;
// only their size is reported so the widget can reject them. At most one
// byte past the limit is read, so a file that grows after the stat is still
// rejected.
func Load(path string) (search.Candidate, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return search.Candidate{}, err
	}
	c := search.Candidate{Name: filepath.Base(path), Size: fi.Size()}
	if fi.Size() > search.MaxFileSize {
		return c, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return search.Candidate{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, search.MaxFileSize+1))
	if err != nil {
		return search.Candidate{}, err
	}
	c.Data = data
	return c, nil
}

// Scan lists image files already present in dir, sorted by name.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !search.MatchesAcceptPattern(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
