package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mverbist/comsof-validate/internal/types"
)

// watchDebounce is how long a ZIP must stay quiet before it is validated.
// Comsof writes exports incrementally, so the first create event fires long
// before the archive is complete.
const watchDebounce = 2 * time.Second

// WatchService watches a directory for new ZIP exports and validates each
// one as it settles.
type WatchService struct {
	validate *ValidateService
	ui       UICallback
}

// NewWatchService creates a watch service around a validation service.
func NewWatchService(validate *ValidateService, ui UICallback) *WatchService {
	return &WatchService{validate: validate, ui: ui}
}

// Watch blocks until ctx is cancelled, validating every ZIP that appears in
// dir. checks applies to every run; onReport is called after each one.
func (s *WatchService) Watch(ctx context.Context, dir string, checks []string, onReport func(*types.SavedReport)) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Printf("👁 Watching %s for new ZIP exports...\n", dir)
	fmt.Println("Press Ctrl+C to stop")

	// Debounce per file: reset the timer on every event until writes stop.
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".zip") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			name := event.Name
			mu.Lock()
			if t, exists := timers[name]; exists {
				t.Stop()
			}
			timers[name] = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				delete(timers, name)
				mu.Unlock()
				s.runOne(ctx, name, checks, onReport)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.ui.ShowWarning("Watch Error", err.Error())
		}
	}
}

func (s *WatchService) runOne(ctx context.Context, archivePath string, checks []string, onReport func(*types.SavedReport)) {
	if ctx.Err() != nil {
		return
	}

	fmt.Printf("\n📦 Detected %s\n", filepath.Base(archivePath))

	record, err := s.validate.Run(ctx, archivePath, checks, noOpProgress{})
	if err != nil {
		s.ui.ShowError("Validation Failed", UserMessage(err))
		return
	}

	s.ui.ShowReport(&record.Report)
	if onReport != nil {
		onReport(record)
	}
	fmt.Printf("\n👁 Still watching...\n")
}

// noOpProgress keeps watch-mode output to the report itself.
type noOpProgress struct{}

func (noOpProgress) Increment(string) {}
func (noOpProgress) SetTotal(int)     {}
func (noOpProgress) Complete()        {}
func (noOpProgress) Fail(error)       {}
