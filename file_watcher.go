package statv

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a file and emits its full contents on every write.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a FileWatcher for the given path. The file must
// exist when Watch is called.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch begins watching the file. The current contents are emitted
// immediately so a Feed can resolve its initial payload. Read errors
// while watching skip the emission; the watch continues.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fw.Add(w.path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer fw.Close()

		if data, err := os.ReadFile(w.path); err == nil {
			select {
			case out <- data:
			case <-ctx.Done():
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				data, err := os.ReadFile(w.path)
				if err != nil {
					continue
				}

				select {
				case out <- data:
				case <-ctx.Done():
					return
				}

			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}
