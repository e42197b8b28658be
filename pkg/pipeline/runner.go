package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meru/pkg/cache"
	"github.com/matzehuels/meru/pkg/observability"
	"github.com/matzehuels/meru/pkg/scene"
	"github.com/matzehuels/meru/pkg/store"
)

// Runner executes the pipeline with caching and optional persistence.
//
// A Runner holds no per-run state, so one instance may serve concurrent
// Execute calls with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects DefaultKeyer and a nil store makes Options.Save a no-op.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs generate → render → (save) for opts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Formats: opts.Formats}

	genStart := time.Now()
	sc, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Scene = sc
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Elements = sc.Size()
	result.CacheInfo.SceneHit = hit

	opts.Logger.Info("generated scene",
		"kind", sc.Kind,
		"elements", result.Stats.Elements,
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.SceneHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	if opts.Save {
		id, err := r.Save(ctx, sc, opts.Name)
		if err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
		result.RecordID = id
	}
	return result, nil
}

// GenerateWithCacheInfo produces the scene for opts.Params and reports
// whether it came from the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (sc *scene.Scene, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	kind := string(opts.Params.Kind)
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, kind)
	start := time.Now()
	defer func() {
		size := 0
		if sc != nil {
			size = sc.Size()
		}
		hooks.OnGenerateComplete(ctx, kind, size, time.Since(start), err)
	}()

	key := r.Keyer.SceneKey(opts.Params)
	if !opts.Refresh {
		if cached, ok := r.cachedScene(ctx, key); ok {
			return cached, true, nil
		}
	}

	sc, err = scene.Generate(opts.Params)
	if err != nil {
		return nil, false, err
	}

	if data, err := scene.Marshal(sc, scene.FormatJSON); err == nil {
		r.set(ctx, "scene", key, data, cache.TTLScene, opts.Logger)
	}
	return sc, false, nil
}

// Generate is GenerateWithCacheInfo without the cache hit flag.
func (r *Runner) Generate(ctx context.Context, opts Options) (*scene.Scene, error) {
	sc, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return sc, err
}

// RenderWithCacheInfo renders sc into opts.Formats. Cached artifacts are
// reused and only the missing formats are rendered. It returns the
// artifacts, the scene content hash and whether every artifact was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	data, err := scene.Marshal(sc, scene.FormatJSON)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	hash := cache.Hash(data)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, ok := r.get(ctx, "artifact", key); ok {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, hash, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, sc, sub)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", key, data, cache.TTLArtifact, opts.Logger)
		artifacts[format] = data
	}
	return artifacts, hash, false, nil
}

// RenderScene is RenderWithCacheInfo without the hash and cache flag.
func (r *Runner) RenderScene(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, sc, opts)
	return artifacts, err
}

// Save persists sc and returns the new record ID. Without a store it
// returns an empty ID.
func (r *Runner) Save(ctx context.Context, sc *scene.Scene, name string) (string, error) {
	if r.Store == nil {
		r.Logger.Warn("no scene store configured, skipping save")
		return "", nil
	}
	rec := store.NewRecord(sc, name)
	if err := r.Store.Put(ctx, rec); err != nil {
		return "", err
	}
	r.Logger.Debug("saved scene", "id", rec.ID, "kind", sc.Kind)
	return rec.ID, nil
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Runner) cachedScene(ctx context.Context, key string) (*scene.Scene, bool) {
	data, ok := r.get(ctx, "scene", key)
	if !ok {
		return nil, false
	}
	sc, err := scene.Unmarshal(data, scene.FormatJSON)
	if err != nil {
		r.Logger.Debug("discarding unreadable cached scene", "key", key, "error", err)
		return nil, false
	}
	return sc, true
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache get failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// set stores data. Write failures are logged and otherwise ignored.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
