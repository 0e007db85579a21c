package pipeline

import (
	"net/http"

	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Chain is an ordered list of pipeline handles applied to a route.
// The first handle is the outermost pipeline.
type Chain []Handle

// NewChain creates a chain from handles.
func NewChain(handles ...Handle) Chain {
	c := make(Chain, len(handles))
	copy(c, handles)
	return c
}

// Append returns a new chain with handles added after the existing ones.
// The receiver is not modified.
func (c Chain) Append(handles ...Handle) Chain {
	out := make(Chain, 0, len(c)+len(handles))
	out = append(out, c...)
	return append(out, handles...)
}

// Resolved is a chain whose handles were looked up in a Set.
type Resolved struct {
	pipelines []*Pipeline
}

// Len returns the number of pipelines in the chain.
func (r *Resolved) Len() int {
	if r == nil {
		return 0
	}
	return len(r.pipelines)
}

// Names returns pipeline names in execution order.
func (r *Resolved) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.pipelines))
	for i, p := range r.pipelines {
		names[i] = p.Name()
	}
	return names
}

// Run sends the request through every pipeline and finally to endpoint.
// Pipeline i wraps pipeline i+1, the last pipeline wraps endpoint.
func (r *Resolved) Run(s *state.State, req *http.Request, endpoint Next) (*response.Response, error) {
	next := endpoint
	if r != nil {
		for i := len(r.pipelines) - 1; i >= 0; i-- {
			p, inner := r.pipelines[i], next
			next = func(s *state.State, req *http.Request) (*response.Response, error) {
				return p.Call(s, req, inner)
			}
		}
	}
	return next(s, req)
}
