package pixelterm

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreloaderEnsureAndGet(t *testing.T) {
	dir := t.TempDir()
	entry := writeTestPNG(t, dir, "a.png", 64, 48)
	p := NewPreloader(newSymbolsRenderer(t))
	defer p.Close()
	geo := testGeometry()

	assert.Nil(t, p.Get(entry), "nothing is cached before Ensure")

	p.Ensure([]ImageEntry{entry}, geo)
	require.Eventually(t, func() bool {
		return p.Get(entry) != nil
	}, 2*time.Second, 5*time.Millisecond)

	frame := p.Get(entry)
	require.NotNil(t, frame)
	assert.True(t, frame.ValidFor(geo))
	assert.Equal(t, entry.Path, frame.Entry.Path)
	assert.NotEmpty(t, frame.Payload)
}

func TestPreloaderCacheStaysWindowSized(t *testing.T) {
	dir := t.TempDir()
	var entries []ImageEntry
	for i := 0; i < 6; i++ {
		entries = append(entries, writeTestPNG(t, dir, fmt.Sprintf("img%d.png", i), 32, 32))
	}
	p := NewPreloader(newSymbolsRenderer(t))
	defer p.Close()
	geo := testGeometry()

	// slide a 3-entry window across the list; entries behind it are
	// evicted so the cache never outgrows the window
	for start := 0; start+3 <= len(entries); start++ {
		p.Ensure(entries[start:start+3], geo)
		p.mu.Lock()
		n := len(p.ready)
		p.mu.Unlock()
		assert.LessOrEqual(t, n, 3)
	}

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.ready) == 3 && len(p.inflight) == 0
	}, 2*time.Second, 5*time.Millisecond)

	// only the final window remains
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range entries[3:6] {
		assert.Contains(t, p.ready, e.Path)
	}
	for _, e := range entries[:3] {
		assert.NotContains(t, p.ready, e.Path)
	}
}

func TestPreloaderInvalidateOnResize(t *testing.T) {
	dir := t.TempDir()
	entry := writeTestPNG(t, dir, "a.png", 64, 48)
	p := NewPreloader(newSymbolsRenderer(t))
	defer p.Close()

	geo := testGeometry()
	p.Ensure([]ImageEntry{entry}, geo)
	require.Eventually(t, func() bool {
		return p.Get(entry) != nil
	}, 2*time.Second, 5*time.Millisecond)

	grown := geo
	grown.Cols = 120
	p.Invalidate(grown)
	assert.Nil(t, p.Get(entry), "resize drops every cached frame")

	p.Ensure([]ImageEntry{entry}, grown)
	require.Eventually(t, func() bool {
		return p.Get(entry) != nil
	}, 2*time.Second, 5*time.Millisecond)
	frame := p.Get(entry)
	assert.True(t, frame.ValidFor(grown))
	assert.False(t, frame.ValidFor(geo))
}

func TestPreloaderDropsStaleResults(t *testing.T) {
	dir := t.TempDir()
	entry := writeTestPNG(t, dir, "a.png", 32, 32)
	p := NewPreloader(newSymbolsRenderer(t))
	defer p.Close()
	geo := testGeometry()

	t.Run("old generation", func(t *testing.T) {
		p.mu.Lock()
		p.geo = geo
		p.gen = 3
		p.want[entry.Path] = true
		p.inflight[entry.Path] = true
		p.mu.Unlock()

		// a worker finishing after an invalidation carries a stale gen
		p.run(preloadJob{entry: entry, geo: geo, gen: 2})

		p.mu.Lock()
		assert.Empty(t, p.ready)
		assert.Empty(t, p.inflight)
		p.mu.Unlock()
	})

	t.Run("entry left the window", func(t *testing.T) {
		p.mu.Lock()
		clear(p.want)
		p.inflight[entry.Path] = true
		p.mu.Unlock()

		p.run(preloadJob{entry: entry, geo: geo, gen: 3})
		assert.Nil(t, p.Get(entry))
	})

	t.Run("current generation lands", func(t *testing.T) {
		p.mu.Lock()
		p.want[entry.Path] = true
		p.inflight[entry.Path] = true
		p.mu.Unlock()

		p.run(preloadJob{entry: entry, geo: geo, gen: 3})
		assert.NotNil(t, p.Get(entry))
	})
}

func TestPreloaderRenderFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	entry := ImageEntry{Path: bad}

	p := NewPreloader(newSymbolsRenderer(t))
	defer p.Close()

	p.Ensure([]ImageEntry{entry}, testGeometry())
	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return len(p.inflight) == 0
	}, 2*time.Second, 5*time.Millisecond)

	assert.Nil(t, p.Get(entry), "a failed render caches nothing")
}

func TestPreloaderPut(t *testing.T) {
	dir := t.TempDir()
	entry := writeTestPNG(t, dir, "a.png", 32, 32)
	r := newSymbolsRenderer(t)
	p := NewPreloader(r)
	defer p.Close()
	geo := testGeometry()

	p.Ensure(nil, geo) // establishes the live geometry

	frame, err := r.RenderFor(entry, geo)
	require.NoError(t, err)
	p.Put(frame)
	assert.Equal(t, frame, p.Get(entry), "a foreground frame is reusable")

	stale := *frame
	stale.Geometry.Cols = 33
	p.Put(&stale)
	got := p.Get(entry)
	require.NotNil(t, got)
	assert.Equal(t, geo, got.Geometry, "a frame for another geometry is not stored")
}

func TestPreloaderDisabled(t *testing.T) {
	// a nil preloader is the off switch: every call is a safe no-op
	var p *Preloader
	assert.Nil(t, p.Get(ImageEntry{Path: "/x.png"}))
	p.Put(&RenderedFrame{})
	p.Ensure([]ImageEntry{{Path: "/x.png"}}, testGeometry())
	p.Invalidate(testGeometry())
	p.Close()
}

func TestPreloaderCloseIdempotent(t *testing.T) {
	p := NewPreloader(newSymbolsRenderer(t))
	p.Close()
	p.Close()
}
