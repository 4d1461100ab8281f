package pixelterm

import (
	"sync"

	"github.com/blacktop/pixelterm/internal/logging"
)

const (
	preloadWorkers = 2
	preloadQueue   = 16
)

type preloadJob struct {
	entry ImageEntry
	geo   ViewportGeometry
	gen   uint64
}

// Preloader renders the current image's neighbors in the background so
// navigation feels instant. The foreground loop schedules work with
// Ensure and probes with Get; workers hand completed frames back under
// a mutex. A nil *Preloader is valid and means preloading is off:
// every probe misses and every schedule is a no-op.
//
// Stale results are fenced two ways: a generation counter bumped on
// every geometry change, and a membership check against the current
// window. A render that finishes for an old geometry or an entry the
// user has navigated away from is dropped at handoff, never displayed.
type Preloader struct {
	renderer *Renderer

	mu       sync.Mutex
	gen      uint64
	geo      ViewportGeometry
	want     map[string]bool
	ready    map[string]*RenderedFrame
	inflight map[string]bool

	jobs chan preloadJob
	quit chan struct{}
	once sync.Once
}

func NewPreloader(r *Renderer) *Preloader {
	p := &Preloader{
		renderer: r,
		want:     make(map[string]bool),
		ready:    make(map[string]*RenderedFrame),
		inflight: make(map[string]bool),
		jobs:     make(chan preloadJob, preloadQueue),
		quit:     make(chan struct{}),
	}
	for i := 0; i < preloadWorkers; i++ {
		go p.worker()
	}
	return p
}

// Get probes the cache. It never renders; a miss means the caller
// falls back to a synchronous render.
func (p *Preloader) Get(entry ImageEntry) *RenderedFrame {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	frame := p.ready[entry.Path]
	if frame == nil || !frame.ValidFor(p.geo) {
		return nil
	}
	return frame
}

// Put stores a foreground-rendered frame so the window scheduler does
// not render the same entry again.
func (p *Preloader) Put(frame *RenderedFrame) {
	if p == nil || frame == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !frame.Geometry.Equal(p.geo) {
		return
	}
	p.ready[frame.Entry.Path] = frame
}

// Ensure schedules background renders for every missing window entry
// and evicts frames that fell outside the window, keeping the cache
// bounded by the window size. The window slice arrives ordered by
// priority, current entry first.
func (p *Preloader) Ensure(window []ImageEntry, geo ViewportGeometry) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !geo.Equal(p.geo) {
		p.invalidateLocked(geo)
	}

	clear(p.want)
	for _, e := range window {
		p.want[e.Path] = true
	}
	for path := range p.ready {
		if !p.want[path] {
			delete(p.ready, path)
		}
	}

	for _, e := range window {
		if p.ready[e.Path] != nil || p.inflight[e.Path] {
			continue
		}
		select {
		case p.jobs <- preloadJob{entry: e, geo: geo, gen: p.gen}:
			p.inflight[e.Path] = true
		default:
			// queue full; the next navigation reschedules
			return
		}
	}
}

// Invalidate drops every cached frame. Called on resize before the
// current image is re-rendered at the new geometry.
func (p *Preloader) Invalidate(geo ViewportGeometry) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidateLocked(geo)
}

func (p *Preloader) invalidateLocked(geo ViewportGeometry) {
	p.gen++
	p.geo = geo
	clear(p.ready)
	clear(p.inflight)
}

// Close stops the workers. Outstanding renders are abandoned, not
// awaited; their results fail the generation check and vanish.
func (p *Preloader) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.quit) })
}

func (p *Preloader) worker() {
	for {
		select {
		case <-p.quit:
			return
		case job := <-p.jobs:
			p.run(job)
		}
	}
}

func (p *Preloader) run(job preloadJob) {
	frame, err := p.renderer.RenderFor(job.entry, job.geo)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, job.entry.Path)
	if err != nil {
		// the foreground render will surface this as a placeholder
		logging.Debug("preload %s: %v", job.entry.Path, err)
		return
	}
	if job.gen != p.gen || !p.want[job.entry.Path] {
		return
	}
	p.ready[job.entry.Path] = frame
}
