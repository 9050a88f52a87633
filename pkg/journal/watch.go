package journal

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last filesystem
// event before signalling a reload. Editors save in bursts; one signal per
// burst is enough.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a vault for entry changes and emits a reload signal after
// each burst of writes settles.
type Watcher struct {
	root     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *log.Logger

	events chan struct{}
	done   chan struct{}
}

// NewWatcher creates a watcher over the vault root. Call Start to begin
// watching and Close to release it.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}
	return &Watcher{
		root:     root,
		fsw:      fsw,
		debounce: DefaultDebounce,
		logger:   log.Default(),
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// SetLogger sets a custom logger for error reporting
func (w *Watcher) SetLogger(logger *log.Logger) {
	w.logger = logger
}

// SetDebounce overrides the settle window. Useful in tests.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Events returns the reload signal channel. The channel has capacity one;
// signals arriving while a reload is pending coalesce.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Start registers the vault directories and begins watching. Subdirectories
// created later are picked up as they appear.
func (w *Watcher) Start() error {
	if err := w.addDirs(w.root); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// addDirs registers root and every non-hidden subdirectory.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			// New directories need registering before their files event
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.fsw.Add(ev.Name); err != nil {
						w.logger.Printf("WARNING: failed to watch new directory %q: %v", ev.Name, err)
					}
				}
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Printf("WARNING: vault watcher error: %v", err)

		case <-timer.C:
			pending = false
			select {
			case w.events <- struct{}{}:
			default:
			}

		case <-w.done:
			timer.Stop()
			return
		}
	}
}

// relevant filters events down to markdown writes and directory changes.
// State files and editor temp files don't trigger reloads.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if strings.Contains(ev.Name, string(filepath.Separator)+StateDirName+string(filepath.Separator)) {
		return false
	}
	if strings.EqualFold(filepath.Ext(base), ".md") {
		return true
	}
	// Directory create/remove changes the entry set too
	if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		if filepath.Ext(base) == "" {
			return true
		}
	}
	return false
}
