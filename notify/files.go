package notify

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

type fileWatch struct {
	w    *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// WatchFiles posts event whenever one of paths is written, created,
// replaced or removed. Parent directories are watched so that editors and
// tools which replace files by rename are seen too.
func WatchFiles(c *Center, event string, paths ...string) (io.Closer, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			w.Close()
			return nil, err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	fw := &fileWatch{w: w, done: make(chan struct{})}
	go func() {
		defer close(fw.done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if files[filepath.Clean(ev.Name)] {
					c.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("watched file changed")
					c.Post(event)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.log.Warn().Err(err).Msg("file watch")
			}
		}
	}()
	return fw, nil
}

func (fw *fileWatch) Close() error {
	var err error
	fw.once.Do(func() {
		err = fw.w.Close()
		<-fw.done
	})
	return err
}
