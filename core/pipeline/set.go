package pipeline

import (
	"fmt"
	"sync/atomic"
)

var setIDs atomic.Uint64

// Handle identifies a pipeline inside the set that issued it.
// The zero Handle is never issued.
type Handle struct {
	set uint64
	idx int
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	return fmt.Sprintf("pipeline#%d.%d", h.set, h.idx)
}

// SetBuilder registers pipelines and issues handles for them.
type SetBuilder struct {
	id        uint64
	pipelines []*Pipeline
	frozen    bool
}

// NewSetBuilder creates an empty set builder.
// Every builder gets its own id, so handles from different sets never collide.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{id: setIDs.Add(1)}
}

// Add registers p and returns its handle. Adding after Freeze panics.
func (b *SetBuilder) Add(p *Pipeline) Handle {
	if b.frozen {
		panic(ErrSetFrozen)
	}
	if p == nil {
		p = &Pipeline{}
	}
	b.pipelines = append(b.pipelines, p)
	return Handle{set: b.id, idx: len(b.pipelines)}
}

// Freeze returns the immutable set of registered pipelines.
func (b *SetBuilder) Freeze() *Set {
	b.frozen = true
	pipelines := make([]*Pipeline, len(b.pipelines))
	copy(pipelines, b.pipelines)
	return &Set{id: b.id, pipelines: pipelines}
}

// Set is an immutable collection of pipelines addressed by Handle.
// It is safe for concurrent use.
type Set struct {
	id        uint64
	pipelines []*Pipeline
}

// EmptySet returns a set without pipelines.
func EmptySet() *Set {
	return NewSetBuilder().Freeze()
}

// Len returns the number of pipelines in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pipelines)
}

// Get returns the pipeline identified by h.
func (s *Set) Get(h Handle) (*Pipeline, error) {
	if s == nil || h.set != s.id || h.idx < 1 || h.idx > len(s.pipelines) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return s.pipelines[h.idx-1], nil
}

// Resolve looks up every handle of c and returns the runnable chain.
func (s *Set) Resolve(c Chain) (*Resolved, error) {
	pipelines := make([]*Pipeline, 0, len(c))
	for _, h := range c {
		p, err := s.Get(h)
		if err != nil {
			return nil, err
		}
		pipelines = append(pipelines, p)
	}
	return &Resolved{pipelines: pipelines}, nil
}
