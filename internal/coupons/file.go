package coupons

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

const fileExt = ".json"

// FileSource serves coupons from <dir>/<domain>.json files and reloads them
// when they change on disk.
type FileSource struct {
	dir     string
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	domains map[string][]models.Coupon
}

// NewFileSource loads every coupon file in dir.
func NewFileSource(dir string) (*FileSource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fs := &FileSource{
		dir:     dir,
		watcher: w,
		domains: make(map[string][]models.Coupon),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to read coupon dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		if err := fs.reload(filepath.Join(dir, e.Name())); err != nil {
			w.Close()
			return nil, err
		}
	}

	return fs, nil
}

func (fs *FileSource) Coupons(_ context.Context, domain string) ([]models.Coupon, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	list, ok := fs.domains[NormalizeDomain(domain)]
	if !ok {
		return []models.Coupon{}, nil
	}
	return append([]models.Coupon{}, list...), nil
}

// Domains returns the number of loaded domains
func (fs *FileSource) Domains() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.domains)
}

// Watch applies file changes until ctx is done. Files that fail to parse keep
// their previous contents.
func (fs *FileSource) Watch(ctx context.Context) error {
	if err := fs.watcher.Add(fs.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fs.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fs.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != fileExt {
				continue
			}

			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := fs.reload(event.Name); err != nil {
					log.Printf("⚠️ Coupon file %s not reloaded: %v", event.Name, err)
					continue
				}
				log.Printf("🔄 Reloaded coupons from %s", filepath.Base(event.Name))
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				fs.forget(event.Name)
				log.Printf("🗑️ Dropped coupons from %s", filepath.Base(event.Name))
			}
		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("⚠️ Coupon watcher error: %v", err)
		}
	}
}

func (fs *FileSource) Close() error {
	return fs.watcher.Close()
}

func (fs *FileSource) reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	coupons := []models.Coupon{}
	if err := json.Unmarshal(data, &coupons); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	fs.mu.Lock()
	fs.domains[domainOf(path)] = coupons
	fs.mu.Unlock()
	return nil
}

func (fs *FileSource) forget(path string) {
	fs.mu.Lock()
	delete(fs.domains, domainOf(path))
	fs.mu.Unlock()
}

func domainOf(path string) string {
	return NormalizeDomain(strings.TrimSuffix(filepath.Base(path), fileExt))
}
