// Package janitor removes uploaded images that no listing references once
// they are older than a grace period. Uploads happen before the listing that
// uses them is created, so young unreferenced files are left alone.
package janitor

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"material-market/internal/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ObjectStore lists and removes stored uploads.
type ObjectStore interface {
	List() ([]storage.Object, error)
	Delete(name string) error
}

// ImageIndex returns every image URL referenced by a listing.
type ImageIndex interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

// Janitor removes uploads that no listing references.
type Janitor struct {
	store     ObjectStore
	index     ImageIndex
	urlPrefix string
	grace     time.Duration
	now       func() time.Time
	logger    *zap.Logger
	cron      *cron.Cron
}

// New builds a Janitor. Files younger than grace are always kept.
func New(store ObjectStore, index ImageIndex, urlPrefix string, grace time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		store:     store,
		index:     index,
		urlPrefix: strings.TrimRight(urlPrefix, "/") + "/",
		grace:     grace,
		now:       time.Now,
		logger:    logger.With(zap.String("service", "janitor")),
	}
}

// Start runs Sweep on the given cron spec ("@every 1h", "0 3 * * *", ...).
func (j *Janitor) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, j.run); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", spec, err)
	}

	j.cron = c
	c.Start()
	j.logger.Info("Janitor started", zap.String("schedule", spec), zap.Duration("grace", j.grace))
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (j *Janitor) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}

	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
	j.logger.Info("Janitor stopped")
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := j.Sweep(ctx); err != nil {
		j.logger.Error("Janitor sweep failed", zap.Error(err))
	}
}

// Sweep deletes orphaned uploads and returns how many were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	urls, err := j.index.ImageURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load referenced images: %w", err)
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if name, ok := j.localName(u); ok {
			referenced[name] = struct{}{}
		}
	}

	objects, err := j.store.List()
	if err != nil {
		return 0, fmt.Errorf("list uploads: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Name]; ok || obj.ModTime.After(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if err := j.store.Delete(obj.Name); err != nil {
			j.logger.Warn("Failed to remove orphaned upload", zap.String("name", obj.Name), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("Orphaned uploads removed", zap.Int("count", removed))
	}
	return removed, nil
}

// localName extracts the stored file name from a URL this server issued.
// Absolute URLs are matched on their path.
func (j *Janitor) localName(u string) (string, bool) {
	if i := strings.Index(u, "://"); i >= 0 {
		rest := u[i+3:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return "", false
		}
		u = rest[slash:]
	}

	if !strings.HasPrefix(u, j.urlPrefix) {
		return "", false
	}
	return path.Base(u), true
}
