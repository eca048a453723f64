package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/ryanthedev/reactor/internal/logging"
)

// Watcher watches the config file for changes and reloads it, delivering
// each successfully-parsed reload on Updates. A failed reload (parse
// error, invalid config) is logged and otherwise ignored: the previous
// valid config stays in effect.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Updates chan *Config
}

// WatchConfig starts watching path for changes. Callers should range
// over Updates and feed each value into the reactor as a ConfigUpdated
// event; call Close to stop watching.
func WatchConfig(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		watcher: fw,
		Updates: make(chan *Config, 1),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadConfig(w.path)
			if err != nil {
				logging.Warn().Err(err).Str("path", w.path).Msg("config reload failed, keeping previous config")
				continue
			}
			select {
			case w.Updates <- cfg:
			default:
				// Drain the stale pending update before pushing the fresh one,
				// since only the latest reload ever matters.
				select {
				case <-w.Updates:
				default:
				}
				w.Updates <- cfg
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn().Err(err).Msg("config watcher error")
		}
	}
}

// Close stops the watcher. The Updates channel is left open but will
// receive no further values; callers should stop reading from it once
// Close returns rather than relying on a close signal.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
