// Package watcher re-runs a handler when C or Python sources change.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"coderefine/internal/language"
)

const DefaultDelay = 500 * time.Millisecond

type FileWatcher struct {
	watcher     *fsnotify.Watcher
	opts        Options
	watchedDirs map[string]bool
	debouncer   *debouncer
	logger      zerolog.Logger
}

// Options tunes a FileWatcher. Exclude holds filepath.Match patterns
// checked against directory paths.
type Options struct {
	Delay   time.Duration
	Exclude []string
}

type FileChangeEvent struct {
	Path      string
	Operation string
	Timestamp time.Time
}

// FileChangeHandler receives the sorted list of files changed in one batch.
type FileChangeHandler func([]string) error

func NewFileWatcher(opts Options, logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	fw := &FileWatcher{
		watcher:     watcher,
		opts:        opts,
		watchedDirs: make(map[string]bool),
		debouncer:   newDebouncer(opts.Delay, logger),
		logger:      logger,
	}
	return fw, nil
}

func (fw *FileWatcher) Watch(paths []string, handler FileChangeHandler) error {
	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", path, err)
		}
	}
	go fw.eventLoop(handler)
	return nil
}

// addPath watches path itself when it is a directory, or its parent
// directory when it is a file.
func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.addDir(filepath.Dir(path))
	}
	return filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if walkPath != path && fw.shouldSkipDir(walkPath) {
			return filepath.SkipDir
		}
		return fw.addDir(walkPath)
	})
}

func (fw *FileWatcher) addDir(dir string) error {
	if fw.watchedDirs[dir] {
		return nil
	}
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	fw.watchedDirs[dir] = true
	return nil
}

func (fw *FileWatcher) eventLoop(handler FileChangeHandler) {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event, handler)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event, handler FileChangeHandler) {
	// Removed and renamed-away files cannot be re-analyzed.
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !IsSourceFile(event.Name) || shouldSkipFile(event.Name) {
		return
	}
	changeEvent := FileChangeEvent{
		Path:      event.Name,
		Operation: eventOpToString(event.Op),
		Timestamp: time.Now(),
	}
	fw.debouncer.add(changeEvent, handler)
}

// IsSourceFile reports whether path has a C or Python extension.
func IsSourceFile(path string) bool {
	_, ok := language.FromFilename(path)
	return ok
}

// SkipDir reports whether a directory is never worth descending into.
func SkipDir(name string) bool {
	switch name {
	case "vendor", ".git", "node_modules", "__pycache__", ".venv", "venv", ".idea", ".vscode", "build", "dist":
		return true
	}
	return false
}

func (fw *FileWatcher) shouldSkipDir(path string) bool {
	if SkipDir(filepath.Base(path)) {
		return true
	}
	for _, pattern := range fw.opts.Exclude {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

func shouldSkipFile(path string) bool {
	filename := filepath.Base(path)
	if strings.HasPrefix(filename, ".") {
		return true
	}
	for _, suffix := range []string{".tmp", "~", ".swp", ".swo"} {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}

func eventOpToString(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return "CREATE"
	case op&fsnotify.Write == fsnotify.Write:
		return "WRITE"
	case op&fsnotify.Remove == fsnotify.Remove:
		return "REMOVE"
	case op&fsnotify.Rename == fsnotify.Rename:
		return "RENAME"
	case op&fsnotify.Chmod == fsnotify.Chmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

func (fw *FileWatcher) Close() error {
	fw.debouncer.stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) GetWatchedPaths() []string {
	paths := make([]string, 0, len(fw.watchedDirs))
	for path := range fw.watchedDirs {
		paths = append(paths, path)
	}
	return paths
}
