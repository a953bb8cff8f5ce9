package maps

import "geochart/internal/graphics"

// Handle indexes a path owned by a Pool.
type Handle int

// Pool recycles region paths between bounds changes. Released paths keep
// their allocation but lose outline, style, tag, listeners and parent.
type Pool struct {
	paths  []*graphics.Path
	free   []Handle
	active []Handle

	allocated int
	reused    int
}

func NewPool() *Pool { return &Pool{} }

// Acquire returns a clean path attached to parent, reusing a released one
// when available.
func (p *Pool) Acquire(parent *graphics.Layer) Handle {
	var h Handle
	if n := len(p.free); n > 0 {
		h = p.free[n-1]
		p.free = p.free[:n-1]
		p.reused++
	} else {
		h = Handle(len(p.paths))
		p.paths = append(p.paths, graphics.NewPath())
		p.allocated++
	}
	p.active = append(p.active, h)
	path := p.paths[h]
	path.SetVisible(true)
	path.SetParent(parent)
	return h
}

// Path returns the path behind h.
func (p *Pool) Path(h Handle) *graphics.Path {
	if h < 0 || int(h) >= len(p.paths) {
		return nil
	}
	return p.paths[h]
}

// ReleaseAll returns every active path to the free list.
func (p *Pool) ReleaseAll() {
	for _, h := range p.active {
		path := p.paths[h]
		path.Clear()
		path.Remove()
		path.RemoveAllListeners()
		path.SetTag(nil)
		path.SetFill(graphics.None)
		path.SetStroke("#000000", 1)
		path.SetHatchFill(graphics.HatchFill{})
	}
	p.free = append(p.free, p.active...)
	p.active = p.active[:0]
}

func (p *Pool) Allocated() int { return p.allocated }
func (p *Pool) Reused() int    { return p.reused }
func (p *Pool) Active() int    { return len(p.active) }
func (p *Pool) Free() int      { return len(p.free) }
