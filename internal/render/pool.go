package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererPool hands out glamour renderers per option set.
// glamour.TermRenderer is not safe for concurrent Render calls, so renderers
// are borrowed and returned instead of shared.
type rendererPool struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var globalPool = &rendererPool{
	pools: make(map[Options]*sync.Pool),
}

// pool returns the pool for opts, creating it on first use
func (p *rendererPool) pool(opts Options) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[opts]; ok {
		return pool
	}

	pool := &sync.Pool{}
	p.pools[opts] = pool
	return pool
}

// get borrows a renderer, building one when the pool is empty
func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.pool(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	return createRenderer(opts)
}

// put returns a renderer to its pool
func (p *rendererPool) put(opts Options, renderer *glamour.TermRenderer) {
	if renderer == nil {
		return
	}
	p.pool(opts).Put(renderer)
}

// createRenderer creates a new TermRenderer with the specified options.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := opts.Style
	if style == "" {
		style = StyleLight
	}

	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
	}

	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}

	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops all pooled renderers (useful for testing).
func ClearCache() {
	globalPool.mu.Lock()
	globalPool.pools = make(map[Options]*sync.Pool)
	globalPool.mu.Unlock()
}

// CacheSize returns the number of distinct option sets seen.
func CacheSize() int {
	globalPool.mu.Lock()
	defer globalPool.mu.Unlock()
	return len(globalPool.pools)
}
