package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
)

// Watch reloads configuration whenever the given file (normally ".env")
// changes and hands the fresh Config to onChange. It returns a stop
// function that releases the watcher.
func Watch(path string, onChange func(*Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logger.Info("config file changed, reloading", logger.String("path", event.Name))
				onChange(Load())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", logger.ErrorField(err))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
