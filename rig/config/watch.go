/*
NAME
  watch.go

DESCRIPTION
  watch.go provides live reload of the rig configuration file using
  filesystem notification.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"
)

// Watcher watches a config file and reloads it on change.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch begins watching the config file at path, invoking reload with
// each successfully loaded and validated new Config. The passed
// logger is set on each reloaded config. Load failures are logged and
// the previous config remains in effect.
func Watch(path string, l logging.Logger, reload func(Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "could not create filesystem watcher")
	}
	err = fsw.Add(path)
	if err != nil {
		fsw.Close()
		return nil, errors.Wrap(err, "could not watch config file")
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	go w.run(path, l, reload)
	return w, nil
}

func (w *Watcher) run(path string, l logging.Logger, reload func(Config)) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.Info("config file changed, reloading", "path", path)
			c, err := Load(path)
			if err != nil {
				l.Warning("could not reload config", "error", err.Error())
				continue
			}
			c.Logger = l
			err = c.Validate()
			if err != nil {
				l.Warning("reloaded config invalid", "error", err.Error())
				continue
			}
			reload(c)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			l.Warning("config watcher error", "error", err.Error())
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
