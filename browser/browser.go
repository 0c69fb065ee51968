// Package browser maintains a navigable directory listing filtered to
// playable audio files.
package browser

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var audioExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".ogg":  true,
	".flac": true,
}

// Entry is one row of the listing.
type Entry struct {
	Name string
	Path string
	Dir  bool
}

// Browser lists one directory at a time: subdirectories first, then
// audio files, both sorted by name. Navigation wraps at both ends. Safe
// for concurrent use; the watcher goroutine refreshes the listing while
// the input loop navigates it.
type Browser struct {
	mu      sync.Mutex
	dir     string
	entries []Entry
	sel     int
}

// New opens a browser rooted at dir.
func New(dir string) (*Browser, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("browser: resolve %q: %w", dir, err)
	}
	b := &Browser{dir: abs}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Dir returns the directory currently listed.
func (b *Browser) Dir() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dir
}

// Refresh re-reads the current directory, keeping the selection on the
// same name when it still exists.
func (b *Browser) Refresh() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshLocked()
}

func (b *Browser) refreshLocked() error {
	dirents, err := os.ReadDir(b.dir)
	if err != nil {
		return fmt.Errorf("browser: read %q: %w", b.dir, err)
	}

	var keep string
	if b.sel < len(b.entries) {
		keep = b.entries[b.sel].Name
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !de.IsDir() && !audioExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		entries = append(entries, Entry{
			Name: name,
			Path: filepath.Join(b.dir, name),
			Dir:  de.IsDir(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Dir != entries[j].Dir {
			return entries[i].Dir
		}
		return entries[i].Name < entries[j].Name
	})

	b.entries = entries
	b.sel = 0
	for i, e := range entries {
		if e.Name == keep {
			b.sel = i
			break
		}
	}
	return nil
}

// Entries returns the display names of the listing, directories with a
// trailing separator.
func (b *Browser) Entries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		if e.Dir {
			names[i] = e.Name + string(filepath.Separator)
		} else {
			names[i] = e.Name
		}
	}
	return names
}

// Selection returns the index of the selected entry.
func (b *Browser) Selection() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sel
}

// SelectNext moves the selection down, wrapping to the top.
func (b *Browser) SelectNext() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return
	}
	b.sel = (b.sel + 1) % len(b.entries)
}

// SelectPrev moves the selection up, wrapping to the bottom.
func (b *Browser) SelectPrev() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return
	}
	b.sel = (b.sel - 1 + len(b.entries)) % len(b.entries)
}

// Selected returns the selected entry's path and whether it is a
// directory; ok is false when the listing is empty.
func (b *Browser) Selected() (path string, dir bool, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sel >= len(b.entries) {
		return "", false, false
	}
	e := b.entries[b.sel]
	return e.Path, e.Dir, true
}

// Descend enters the selected directory and reports whether it did. A
// directory that fails to list leaves the browser where it was.
func (b *Browser) Descend() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sel >= len(b.entries) || !b.entries[b.sel].Dir {
		return false
	}
	prev := b.dir
	b.dir = b.entries[b.sel].Path
	if err := b.refreshLocked(); err != nil {
		b.dir = prev
		b.refreshLocked()
		return false
	}
	return true
}

// Ascend moves to the parent directory, selecting the directory just
// left.
func (b *Browser) Ascend() {
	b.mu.Lock()
	defer b.mu.Unlock()
	parent := filepath.Dir(b.dir)
	if parent == b.dir {
		return
	}
	from := filepath.Base(b.dir)
	prev := b.dir
	b.dir = parent
	if err := b.refreshLocked(); err != nil {
		b.dir = prev
		b.refreshLocked()
		return
	}
	for i, e := range b.entries {
		if e.Dir && e.Name == from {
			b.sel = i
			break
		}
	}
}

// watchRetargetInterval bounds how long the watcher may lag behind the
// browsed directory after Descend or Ascend.
const watchRetargetInterval = 100 * time.Millisecond

// Watch refreshes the listing whenever the listed directory changes on
// disk, following the browser as it navigates. A quiet directory
// produces no filesystem events, so retargeting is driven by a ticker
// rather than by the event stream. Runs until ctx is cancelled.
func (b *Browser) Watch(ctx context.Context, logger *log.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("browser: watcher: %w", err)
	}

	go func() {
		defer w.Close()
		watched := ""
		retarget := func() {
			dir := b.Dir()
			if dir == watched {
				return
			}
			if watched != "" {
				w.Remove(watched)
			}
			if err := w.Add(dir); err != nil && logger != nil {
				logger.Printf("browser: watch %q: %v", dir, err)
			}
			watched = dir
		}
		retarget()

		tick := time.NewTicker(watchRetargetInterval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				retarget()
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					if err := b.Refresh(); err != nil && logger != nil {
						logger.Printf("browser: refresh: %v", err)
					}
				}
				retarget()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if logger != nil {
					logger.Printf("browser: watch: %v", err)
				}
			}
		}
	}()
	return nil
}
