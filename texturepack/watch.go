package texturepack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch starts watching every directory under the scanned roots for
// manifest or image changes. Events are only consumed by Poll, so reloads
// happen on the caller's update thread.
func (p *Pack) Watch() error {
	if p.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	for _, r := range p.roots {
		if err := watchTree(w, r, r.dir); err != nil {
			w.Close()
			return fmt.Errorf("watch %s: %w", r.dir, err)
		}
	}
	p.watcher = w
	return nil
}

// watchTree adds dir and its subdirectories down to the root's max depth.
func watchTree(w *fsnotify.Watcher, r scanRoot, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return nil
		}
		if depthOf(rel) > r.maxDepth {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// watchCreated starts watching path when it is a directory created under one
// of the scanned roots.
func (p *Pack) watchCreated(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for _, r := range p.roots {
		rel, err := filepath.Rel(r.dir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if err := watchTree(p.watcher, r, path); err != nil {
			p.log.Warn("Failed to watch texture directory", zap.String("dir", path), zap.Error(err))
			return
		}
		p.log.Debug("Watching new texture directory", zap.String("dir", path))
		return
	}
}

// Poll drains pending filesystem events without blocking and rescans when
// any of them touched the pack. It reports whether a rescan happened.
func (p *Pack) Poll() bool {
	if p.watcher == nil {
		return false
	}
	dirty := false
	for {
		select {
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return p.rescanIf(dirty)
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				p.watchCreated(ev.Name)
			}
			p.log.Debug("Texture pack changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			dirty = true
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return p.rescanIf(dirty)
			}
			p.log.Warn("Texture watcher error", zap.Error(err))
		default:
			return p.rescanIf(dirty)
		}
	}
}

func (p *Pack) rescanIf(dirty bool) bool {
	if !dirty {
		return false
	}
	n := p.Rescan()
	p.log.Info("Texture pack reloaded", zap.Int("assets", n))
	return true
}

func (p *Pack) Close() error {
	if p.watcher == nil {
		return nil
	}
	err := p.watcher.Close()
	p.watcher = nil
	return err
}

func depthOf(rel string) int {
	if rel == "." || rel == "" {
		return 0
	}
	depth := 1
	for _, r := range rel {
		if r == filepath.Separator {
			depth++
		}
	}
	return depth
}
