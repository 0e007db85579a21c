package router

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/routekit/core/handler"
	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// Dispatcher runs a resolved pipeline chain in front of a handler.
type Dispatcher struct {
	newHandler handler.NewHandler
	pipelines  *pipeline.Resolved
}

// NewDispatcher resolves chain against set and binds it to h.
func NewDispatcher(h handler.NewHandler, set *pipeline.Set, chain pipeline.Chain) (*Dispatcher, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	resolved, err := set.Resolve(chain)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{newHandler: h, pipelines: resolved}, nil
}

// Dispatch sends the request through the pipelines. The handler instance
// is created only when the last pipeline calls next.
func (d *Dispatcher) Dispatch(s *state.State, r *http.Request) (*response.Response, error) {
	return d.pipelines.Run(s, r, func(s *state.State, r *http.Request) (*response.Response, error) {
		h, err := d.newHandler.NewHandler()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrHandlerInit, err)
		}
		return h.Handle(s, r)
	})
}

// Pipelines returns the names of the pipelines in execution order.
func (d *Dispatcher) Pipelines() []string {
	return d.pipelines.Names()
}
