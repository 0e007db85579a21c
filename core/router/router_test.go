package router_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/core/extractor"
	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/router"
	"github.com/dmitrymomot/routekit/core/state"
)

type helloPath struct {
	Name string `path:"name,required"`
}

type addQuery struct {
	X int `query:"x,required"`
	Y int `query:"y,required"`
}

func index(*state.State, *http.Request) (*response.Response, error) {
	return response.String("index"), nil
}

func submit(*state.State, *http.Request) (*response.Response, error) {
	return response.StringWithStatus("accepted", http.StatusAccepted), nil
}

func hello(s *state.State, _ *http.Request) (*response.Response, error) {
	p := state.MustTake[helloPath](s)
	return response.String(fmt.Sprintf("Hello, %s!", p.Name)), nil
}

func add(s *state.State, _ *http.Request) (*response.Response, error) {
	q := state.MustTake[addQuery](s)
	return response.String(fmt.Sprintf("%d + %d = %d", q.X, q.Y, q.X+q.Y)), nil
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func scenarioRouter(t *testing.T) *router.Router {
	t.Helper()

	r, err := router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/").To(index)
		b.Scope("/api", func(b *router.Builder) {
			b.Post("/submit").To(submit)
		})
		b.Get("/hello/:name").WithPathExtractor(extractor.Path[helloPath]()).To(hello)
		b.Get("/add").WithQueryStringExtractor(extractor.Query[addQuery]()).To(add)
	})
	require.NoError(t, err)
	return r
}

func TestRouterScenario(t *testing.T) {
	t.Parallel()

	r := scenarioRouter(t)

	tests := []struct {
		method string
		target string
		status int
		body   string
	}{
		{http.MethodGet, "/", http.StatusOK, "index"},
		{http.MethodPost, "/api/submit", http.StatusAccepted, "accepted"},
		{http.MethodGet, "/hello/world", http.StatusOK, "Hello, world!"},
		{http.MethodGet, "/add?x=16&y=71", http.StatusOK, "16 + 71 = 87"},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
		{http.MethodDelete, "/hello/world", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			t.Parallel()

			w := serve(t, r, tt.method, tt.target)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRouterPathNormalization(t *testing.T) {
	t.Parallel()

	r := scenarioRouter(t)

	tests := []struct {
		target string
		body   string
	}{
		{"/hello/world/", "Hello, world!"},
		{"//hello//world", "Hello, world!"},
		{"/hello/caf%C3%A9", "Hello, café!"},
		{"/hello/a%2Fb", "Hello, a/b!"},
		{"", "index"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = ""
			if tt.target != "" {
				req = httptest.NewRequest(http.MethodGet, tt.target, nil)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestRouterUnicodeNormalization(t *testing.T) {
	t.Parallel()

	// "é" as e + combining acute accent
	decomposed := "/caf%65%CC%81"

	build := func(normalize bool) *router.Router {
		return router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/café").To(index)
		}, router.WithUnicodeNormalization(normalize))
	}

	assert.Equal(t, http.StatusOK, serve(t, build(true), http.MethodGet, decomposed).Code)
	assert.Equal(t, http.StatusNotFound, serve(t, build(false), http.MethodGet, decomposed).Code)
}

func TestRouterMethodHandling(t *testing.T) {
	t.Parallel()

	r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/items").To(index)
		b.Post("/items").To(submit)
		b.Associate("/items/:id", func(a *router.AssociatedBuilder) {
			a.Put().To(submit)
			a.Delete().To(submit)
		})
	})

	t.Run("get also routes head", func(t *testing.T) {
		t.Parallel()

		w := serve(t, r, http.MethodHead, "/items")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "5", w.Header().Get("Content-Length"))
	})

	t.Run("allow header lists methods", func(t *testing.T) {
		t.Parallel()

		w := serve(t, r, http.MethodPatch, "/items")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, HEAD, POST", w.Header().Get("Allow"))

		w = serve(t, r, http.MethodGet, "/items/1")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "DELETE, PUT", w.Header().Get("Allow"))
	})

	t.Run("associated routes", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusAccepted, serve(t, r, http.MethodPut, "/items/1").Code)
		assert.Equal(t, http.StatusAccepted, serve(t, r, http.MethodDelete, "/items/1").Code)
	})

	t.Run("method names are case sensitive", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusMethodNotAllowed, serve(t, r, "get", "/items").Code)
	})
}

func TestRouterMatchers(t *testing.T) {
	t.Parallel()

	r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/data").WithMatcher(router.Accept("application/json")).To(func(*state.State, *http.Request) (*response.Response, error) {
			return response.JSON(map[string]string{"format": "json"})
		})
		b.Get("/data").WithMatcher(router.Header("X-Legacy", "1")).To(index)
		b.Get("/data").To(func(*state.State, *http.Request) (*response.Response, error) {
			return response.String("fallback"), nil
		})
	})

	t.Run("first matching route wins", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Legacy", "1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.JSONEq(t, `{"format":"json"}`, w.Body.String())
	})

	t.Run("falls through to next route", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set("Accept", "text/html")
		req.Header.Set("X-Legacy", "1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "index", w.Body.String())
	})

	t.Run("fallback", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "fallback", w.Body.String())
	})
}

func TestRouterExtraction(t *testing.T) {
	t.Parallel()

	called := false
	r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/add").WithQueryStringExtractor(extractor.Query[addQuery]()).To(func(s *state.State, req *http.Request) (*response.Response, error) {
			called = true
			return add(s, req)
		})
		b.Get("/users/:id").WithPathExtractor(extractor.Path[struct {
			ID int `path:"id"`
		}]()).To(index)
	})

	w := serve(t, r, http.MethodGet, "/add?x=16")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required value")

	w = serve(t, r, http.MethodGet, "/add?x=a&y=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, r, http.MethodGet, "/users/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.False(t, called)

	w = serve(t, r, http.MethodGet, "/add?x=1&y=2")
	assert.Equal(t, "1 + 2 = 3", w.Body.String())
	assert.True(t, called)
}

func TestRouterFinalizer(t *testing.T) {
	t.Parallel()

	failed := extractor.ResponseExtenderFunc(func(_ *state.State, resp *response.Response) {
		resp.SetBody([]byte(`{"error":"bad query"}`), "application/json")
	})
	notFound := extractor.ResponseExtenderFunc(func(s *state.State, resp *response.Response) {
		resp.SetBody([]byte("custom 404 "+state.RequestIDFrom(s)), "text/plain")
	})
	tagged := extractor.ResponseExtenderFunc(func(_ *state.State, resp *response.Response) {
		resp.WithHeader("X-Created", "yes")
	})

	r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.AddStatusExtender(http.StatusNotFound, notFound)
		b.AddStatusExtender(http.StatusCreated, tagged)
		b.Get("/add").WithQueryStringExtractor(extractor.Query[addQuery]().WithExtender(failed)).To(add)
		b.Post("/things").To(func(*state.State, *http.Request) (*response.Response, error) {
			return response.Empty(http.StatusCreated), nil
		})
	})

	t.Run("extractor extender on failure", func(t *testing.T) {
		t.Parallel()

		w := serve(t, r, http.MethodGet, "/add")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"bad query"}`, w.Body.String())
	})

	t.Run("extenders stay with their route", func(t *testing.T) {
		t.Parallel()

		body := func(text string) extractor.ResponseExtender {
			return extractor.ResponseExtenderFunc(func(_ *state.State, resp *response.Response) {
				resp.SetBody([]byte(text), "text/plain")
			})
		}
		r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/one").WithQueryStringExtractor(extractor.Query[addQuery]().WithExtender(body("one"))).To(add)
			b.Get("/two").WithQueryStringExtractor(extractor.Query[addQuery]().WithExtender(body("two"))).To(add)
			b.Get("/plain").WithQueryStringExtractor(extractor.Query[addQuery]()).To(add)
		})

		w := serve(t, r, http.MethodGet, "/two")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "two", w.Body.String())

		assert.Equal(t, "one", serve(t, r, http.MethodGet, "/one").Body.String())
		assert.Contains(t, serve(t, r, http.MethodGet, "/plain").Body.String(), "missing required value")
	})

	t.Run("status extender on router response", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set("X-Request-ID", "req-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "custom 404 req-1", w.Body.String())
		assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	})

	t.Run("status extender on handler response", func(t *testing.T) {
		t.Parallel()

		w := serve(t, r, http.MethodPost, "/things")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-Created"))
	})
}

func TestRouterPipelines(t *testing.T) {
	t.Parallel()

	header := func(key, value string) pipeline.MiddlewareFunc {
		return func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
			resp, err := next(s, r)
			if resp != nil {
				resp.Header.Add(key, value)
			}
			return resp, err
		}
	}
	deny := pipeline.MiddlewareFunc(func(*state.State, *http.Request, pipeline.Next) (*response.Response, error) {
		return response.StringWithStatus("denied", http.StatusUnauthorized), nil
	})

	sb := pipeline.NewSetBuilder()
	web := sb.Add(pipeline.New().Named("web").Add(header("X-Pipeline", "web")).MustBuild())
	api := sb.Add(pipeline.New().Named("api").Add(header("X-Pipeline", "api")).MustBuild())
	guard := sb.Add(pipeline.New().Named("guard").Add(deny).MustBuild())
	set := sb.Freeze()

	handled := false
	r, err := router.Build(pipeline.NewChain(web), set, func(b *router.Builder) {
		b.Get("/").To(index)
		b.WithPipelineChain(pipeline.NewChain(web, api), func(b *router.Builder) {
			b.Get("/api").To(index)
		})
		b.WithPipelineChain(pipeline.NewChain(guard, api), func(b *router.Builder) {
			b.Get("/admin").To(func(*state.State, *http.Request) (*response.Response, error) {
				handled = true
				return response.String("admin"), nil
			})
		})
	})
	require.NoError(t, err)

	w := serve(t, r, http.MethodGet, "/")
	assert.Equal(t, []string{"web"}, w.Header().Values("X-Pipeline"))

	w = serve(t, r, http.MethodGet, "/api")
	assert.Equal(t, []string{"api", "web"}, w.Header().Values("X-Pipeline"))

	w = serve(t, r, http.MethodGet, "/admin")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Header().Values("X-Pipeline"))
	assert.False(t, handled)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/", routes[0].Pattern)
	assert.Equal(t, []string{"web"}, routes[0].Pipelines)
	assert.Equal(t, "/admin", routes[1].Pattern)
	assert.Equal(t, []string{"guard", "api"}, routes[1].Pipelines)
}

func TestRouterDelegation(t *testing.T) {
	t.Parallel()

	sb := pipeline.NewSetBuilder()
	tag := sb.Add(pipeline.New().Named("tag").Add(pipeline.MiddlewareFunc(
		func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
			resp, err := next(s, r)
			if resp != nil {
				resp.Header.Set("X-Outer", "1")
			}
			return resp, err
		})).MustBuild())
	set := sb.Freeze()

	inner := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/").To(func(_ *state.State, r *http.Request) (*response.Response, error) {
			return response.String("inner root " + r.URL.Path), nil
		})
		b.Get("/users/:id").WithPathExtractor(extractor.Path[struct {
			ID string `path:"id"`
		}]()).To(func(s *state.State, r *http.Request) (*response.Response, error) {
			return response.String("user " + r.URL.Path + " " + state.RequestIDFrom(s)), nil
		})
	})

	outer := router.MustBuild(pipeline.NewChain(tag), set, func(b *router.Builder) {
		b.Get("/").To(index)
		b.Delegate("/admin").ToRouter(inner)
		b.DelegateWithoutPipelines("/raw").ToRouter(inner)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users/42", nil)
	req.Header.Set("X-Request-ID", "outer-id")
	w := httptest.NewRecorder()
	outer.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user /users/42 outer-id", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Outer"))

	w = serve(t, outer, http.MethodGet, "/admin")
	assert.Equal(t, "inner root /", w.Body.String())

	w = serve(t, outer, http.MethodGet, "/admin/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Outer"))

	w = serve(t, outer, http.MethodGet, "/raw/users/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Outer"))

	var patterns []string
	for _, info := range outer.Routes() {
		patterns = append(patterns, info.Pattern)
	}
	assert.Equal(t, []string{"/", "/admin", "/admin", "/admin/users/:id", "/raw", "/raw", "/raw/users/:id"}, patterns)
}

func TestRouterErrors(t *testing.T) {
	t.Parallel()

	t.Run("handler error uses status code", func(t *testing.T) {
		t.Parallel()

		r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/forbidden").To(func(*state.State, *http.Request) (*response.Response, error) {
				return nil, response.ErrForbidden
			})
			b.Get("/boom").To(func(*state.State, *http.Request) (*response.Response, error) {
				return nil, errors.New("database exploded")
			})
			b.Get("/nil").To(func(*state.State, *http.Request) (*response.Response, error) {
				return nil, nil
			})
		})

		assert.Equal(t, http.StatusForbidden, serve(t, r, http.MethodGet, "/forbidden").Code)

		w := serve(t, r, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "database")

		assert.Equal(t, http.StatusInternalServerError, serve(t, r, http.MethodGet, "/nil").Code)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/panic").To(func(*state.State, *http.Request) (*response.Response, error) {
				panic(response.ErrNotFound)
			})
		}, router.WithErrorHandler(func(s *state.State, r *http.Request, err error) *response.Response {
			got = err
			return nil
		}))

		w := serve(t, r, http.MethodGet, "/panic")
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var perr router.PanicError
		require.ErrorAs(t, got, &perr)
		assert.Equal(t, response.ErrNotFound, perr.Value())
		assert.NotEmpty(t, perr.Stack())
	})

	t.Run("panic in extractor is recovered", func(t *testing.T) {
		t.Parallel()

		var got error
		explode := extractor.PathExtractorFunc(func(*state.State, extractor.SegmentMapping) error {
			panic("boom")
		})
		inner := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/:id").WithPathExtractor(explode).To(index)
		})
		r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/items/:id").WithPathExtractor(explode).To(index)
			b.Delegate("/nested").ToRouter(inner)
		}, router.WithErrorHandler(func(s *state.State, r *http.Request, err error) *response.Response {
			got = err
			return nil
		}))

		w := serve(t, r, http.MethodGet, "/items/1")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), w.Body.String())

		var perr router.PanicError
		require.ErrorAs(t, got, &perr)
		assert.Equal(t, "boom", perr.Value())

		w = serve(t, r, http.MethodGet, "/nested/1")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {}, router.WithErrorHandler(
			func(_ *state.State, _ *http.Request, err error) *response.Response {
				return response.JSONError(err)
			}))

		w := serve(t, r, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
	})

	t.Run("request id generated", func(t *testing.T) {
		t.Parallel()

		w := serve(t, scenarioRouter(t), http.MethodGet, "/")
		assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	})
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("conflicting dynamic segments", func(t *testing.T) {
		t.Parallel()

		_, err := router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/users/:id").To(index)
			b.Get("/users/:name/posts").To(index)
		})
		require.ErrorIs(t, err, router.ErrConflictingDynamicSegment)
	})

	t.Run("duplicate route", func(t *testing.T) {
		t.Parallel()

		_, err := router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/").To(index)
			b.Head("/").To(index)
		})
		require.ErrorIs(t, err, router.ErrDuplicateRoute)
	})

	t.Run("delegation shadowing routes", func(t *testing.T) {
		t.Parallel()

		inner := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/").To(index)
		})

		_, err := router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Delegate("/api").ToRouter(inner)
			b.Get("/api/health").To(index)
		})
		require.ErrorIs(t, err, router.ErrDuplicateRoute)

		_, err = router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/api/health").To(index)
			b.Delegate("/api").ToRouter(inner)
		})
		require.ErrorIs(t, err, router.ErrDuplicateRoute)

		_, err = router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/api").To(index)
			b.Delegate("/api").ToRouter(inner)
		})
		require.ErrorIs(t, err, router.ErrDuplicateRoute)
	})

	t.Run("route without methods", func(t *testing.T) {
		t.Parallel()

		_, err := router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Request(nil, "/z").To(index)
		})
		require.ErrorIs(t, err, router.ErrNoMethods)

		_, err = router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Associate("/z", func(a *router.AssociatedBuilder) {
				a.Request().To(index)
			})
		})
		require.ErrorIs(t, err, router.ErrNoMethods)
	})

	t.Run("errors are collected", func(t *testing.T) {
		t.Parallel()

		_, err := router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.Get("/a/*").To(index)
			b.Get("/b").To(nil)
			b.Delegate("/c").ToRouter(nil)
			b.Get("/d").WithPathExtractor(nil).To(index)
		})
		require.ErrorIs(t, err, router.ErrInvalidPattern)
		require.ErrorIs(t, err, router.ErrNilHandler)
		require.ErrorIs(t, err, router.ErrNilRouter)
		require.ErrorIs(t, err, router.ErrNilExtractor)
	})

	t.Run("foreign pipeline handle", func(t *testing.T) {
		t.Parallel()

		foreign := pipeline.NewSetBuilder().Add(pipeline.New().MustBuild())

		_, err := router.Build(pipeline.NewChain(foreign), pipeline.EmptySet(), nil)
		require.ErrorIs(t, err, pipeline.ErrUnknownHandle)

		_, err = router.Build(nil, pipeline.EmptySet(), func(b *router.Builder) {
			b.WithPipelineChain(pipeline.NewChain(foreign), func(b *router.Builder) {
				b.Get("/").To(index)
			})
		})
		require.ErrorIs(t, err, pipeline.ErrUnknownHandle)
	})

	t.Run("nil set", func(t *testing.T) {
		t.Parallel()

		_, err := router.Build(nil, nil, nil)
		require.ErrorIs(t, err, router.ErrNilPipelineSet)
		assert.Panics(t, func() { router.MustBuild(nil, nil, nil) })
	})

	t.Run("route builders are values", func(t *testing.T) {
		t.Parallel()

		r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
			base := b.Get("/x")
			base.WithMatcher(router.Header("X-A", "")).To(func(*state.State, *http.Request) (*response.Response, error) {
				return response.String("a"), nil
			})
			base.To(func(*state.State, *http.Request) (*response.Response, error) {
				return response.String("plain"), nil
			})
		})

		assert.Equal(t, "plain", serve(t, r, http.MethodGet, "/x").Body.String())
	})
}

func TestRouterRoutePattern(t *testing.T) {
	t.Parallel()

	patternHandler := func(s *state.State, _ *http.Request) (*response.Response, error) {
		return response.String(state.RoutePatternFrom(s)), nil
	}

	inner := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/users/:id").To(patternHandler)
	})
	r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/hello/:name").To(patternHandler)
		b.Scope("/api", func(b *router.Builder) {
			b.Get("/items").To(patternHandler)
		})
		b.Delegate("/admin").ToRouter(inner)
	})

	assert.Equal(t, "/hello/:name", serve(t, r, http.MethodGet, "/hello/world").Body.String())
	assert.Equal(t, "/api/items", serve(t, r, http.MethodGet, "/api/items").Body.String())
	assert.Equal(t, "/admin/users/:id", serve(t, r, http.MethodGet, "/admin/users/7").Body.String())
}

func TestRouterConcurrentRequests(t *testing.T) {
	t.Parallel()

	inner := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/users/:id").WithPathExtractor(extractor.Path[struct {
			ID int `path:"id,required"`
		}]()).To(func(s *state.State, _ *http.Request) (*response.Response, error) {
			return response.String(state.RoutePatternFrom(s)), nil
		})
	})
	r := router.MustBuild(nil, pipeline.EmptySet(), func(b *router.Builder) {
		b.Get("/hello/:name").WithPathExtractor(extractor.Path[helloPath]()).To(hello)
		b.Get("/add").WithQueryStringExtractor(extractor.Query[addQuery]()).To(add)
		b.Delegate("/admin").ToRouter(inner)
	})

	const workers = 16
	for i := range workers {
		t.Run(fmt.Sprintf("worker %d", i), func(t *testing.T) {
			t.Parallel()

			for j := range 50 {
				name := fmt.Sprintf("w%d-%d", i, j)
				w := serve(t, r, http.MethodGet, "/hello/"+name)
				require.Equal(t, "Hello, "+name+"!", w.Body.String())

				w = serve(t, r, http.MethodGet, fmt.Sprintf("/add?x=%d&y=%d", i, j))
				require.Equal(t, fmt.Sprintf("%d + %d = %d", i, j, i+j), w.Body.String())

				w = serve(t, r, http.MethodGet, fmt.Sprintf("/admin/users/%d", j))
				require.Equal(t, "/admin/users/:id", w.Body.String())

				require.Equal(t, http.StatusNotFound, serve(t, r, http.MethodGet, "/nope").Code)
			}
		})
	}
}
