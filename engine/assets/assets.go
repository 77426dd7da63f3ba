package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-hal/engine/containers"
	"github.com/spaghettifunk/anima-hal/engine/core"
	"github.com/spaghettifunk/anima-hal/engine/renderer/shadestyle"
)

type target struct {
	style *shadestyle.ShadeStyle
	field StyleField
}

type reload struct {
	path   string
	source string
}

// StyleWatcher reloads style snippets when their files change. Files are read
// by the watcher goroutine and queued; the styles themselves are only touched
// by Apply, which runs on the thread owning the render context.
type StyleWatcher struct {
	directory string

	mutex   sync.RWMutex
	targets map[string][]target

	queue    *containers.RingQueue[reload]
	fsnotify *fsnotify.Watcher
	addWatch func(path string) error
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
	started  bool
}

func NewStyleWatcher(directory string, queueSize int) (*StyleWatcher, error) {
	if queueSize <= 0 {
		err := fmt.Errorf("%w: reload queue size must be positive, got %d", core.ErrInvalidConfig, queueSize)
		core.LogError(err.Error())
		return nil, err
	}
	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &StyleWatcher{
		directory: abs,
		targets:   make(map[string][]target),
		queue:     containers.NewRingQueue[reload](queueSize),
		fsnotify:  fsWatch,
		addWatch:  fsWatch.Add,
		done:      make(chan struct{}),
	}, nil
}

// Start watches the directory and its sub-directories.
func (w *StyleWatcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isClosed {
		return errors.New("style watcher already closed")
	}
	if w.started {
		return nil
	}
	if err := w.watchRecursive(w.directory); err != nil {
		return err
	}
	w.started = true
	w.wg.Add(1)
	go w.start()
	core.LogInfo("watching style sources in %s", w.directory)
	return nil
}

func (w *StyleWatcher) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		return nil
	})
}

func (w *StyleWatcher) resolve(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.directory, path)
	}
	return filepath.Clean(path)
}

/**
 * @brief Loads the snippet files of sources into style and reloads them on
 * change. Must be called from the thread owning the style.
 */
func (w *StyleWatcher) Watch(style *shadestyle.ShadeStyle, sources StyleSources) error {
	if style == nil {
		return fmt.Errorf("watch: %w", core.ErrNilResource)
	}
	loaded := make(map[StyleField]string)
	paths := make(map[StyleField]string)
	for field, path := range sources.fields() {
		path = w.resolve(path)
		source, err := readSnippet(path)
		if err != nil {
			core.LogError(err.Error())
			return err
		}
		loaded[field] = source
		paths[field] = path
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return errors.New("style watcher already closed")
	}
	// every directory is watched before the style changes, a failure leaves
	// style and targets untouched
	for _, path := range paths {
		// files outside the watched tree need their own directory watch
		if err := w.addWatch(filepath.Dir(path)); err != nil {
			err = fmt.Errorf("failed to watch `%s`: %w", path, err)
			core.LogError(err.Error())
			return err
		}
	}
	for field, path := range paths {
		w.targets[path] = append(w.targets[path], target{style: style, field: field})
		assign(style, field, loaded[field])
	}
	return nil
}

// Unwatch stops reloading into style.
func (w *StyleWatcher) Unwatch(style *shadestyle.ShadeStyle) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	for path, targets := range w.targets {
		kept := targets[:0]
		for _, t := range targets {
			if t.style != style {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(w.targets, path)
		} else {
			w.targets[path] = kept
		}
	}
}

func (w *StyleWatcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
					_ = w.watchDirectory(e.Name)
				}
			}
			if e.Op.Has(fsnotify.Create) || e.Op.Has(fsnotify.Write) {
				w.handle(filepath.Clean(e.Name))
			}
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("style watcher: %s", err.Error())
		case <-w.done:
			return
		}
	}
}

func (w *StyleWatcher) watchDirectory(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.fsnotify.Add(walkPath)
	})
}

// handle queues the new content of path when a style uses it.
func (w *StyleWatcher) handle(path string) {
	w.mutex.RLock()
	_, watched := w.targets[path]
	w.mutex.RUnlock()
	if !watched {
		return
	}

	source, err := readSnippet(path)
	if err != nil {
		// the file may be mid-replace, the next event reloads it
		core.LogWarn(err.Error())
		return
	}
	if err := w.queue.Enqueue(reload{path: path, source: source}); err != nil {
		core.LogWarn("style watcher: dropping reload of %s: %s", path, err.Error())
		return
	}
	core.LogDebug("queued reload of %s", path)
}

/**
 * @brief Applies the queued reloads to their styles. Changed styles are
 * dirty afterwards and regenerate on their next draw.
 *
 * @return The number of style fields that changed.
 */
func (w *StyleWatcher) Apply() int {
	changed := 0
	for {
		r, err := w.queue.Dequeue()
		if err != nil {
			return changed
		}
		w.mutex.RLock()
		targets := append([]target(nil), w.targets[r.path]...)
		w.mutex.RUnlock()
		for _, t := range targets {
			if assign(t.style, t.field, r.source) {
				core.LogInfo("reloaded %s from %s", t.field, r.path)
				changed++
			}
		}
	}
}

// Pending is the number of queued reloads.
func (w *StyleWatcher) Pending() int {
	return w.queue.Len()
}

func (w *StyleWatcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return nil
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	err := w.fsnotify.Close()
	w.wg.Wait()
	return err
}
