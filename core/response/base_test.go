package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/core/response"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		resp        *response.Response
		status      int
		contentType string
		body        string
	}{
		{"string", response.String("Hello, World!"), http.StatusOK, "text/plain; charset=utf-8", "Hello, World!"},
		{"empty string", response.String(""), http.StatusOK, "text/plain; charset=utf-8", ""},
		{"string with status", response.StringWithStatus("created", http.StatusCreated), http.StatusCreated, "text/plain; charset=utf-8", "created"},
		{"html", response.HTML("<p>hi</p>"), http.StatusOK, "text/html; charset=utf-8", "<p>hi</p>"},
		{"bytes", response.Bytes([]byte{1, 2}, "application/octet-stream", http.StatusOK), http.StatusOK, "application/octet-stream", "\x01\x02"},
		{"empty", response.Empty(http.StatusNoContent), http.StatusNoContent, "", ""},
		{"zero status", response.New(0), http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, tt.resp.Status)
			assert.Equal(t, tt.contentType, tt.resp.Header.Get("Content-Type"))
			assert.Equal(t, tt.body, string(tt.resp.Body))
		})
	}
}

func TestResponseMutation(t *testing.T) {
	t.Parallel()

	resp := response.String("a").WithHeader("X-One", "1")
	resp.SetBody([]byte("{}"), "application/json")
	assert.Equal(t, "1", resp.Header.Get("X-One"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "{}", string(resp.Body))

	var zero response.Response
	zero.WithHeader("X-Two", "2")
	assert.Equal(t, "2", zero.Header.Get("X-Two"))
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("writes headers status and body", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, response.StringWithStatus("made", http.StatusCreated).WithHeader("X-A", "b").Write(w, r))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "made", w.Body.String())
		assert.Equal(t, "b", w.Header().Get("X-A"))
		assert.Equal(t, "4", w.Header().Get("Content-Length"))
	})

	t.Run("head omits body", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodHead, "/", nil)
		require.NoError(t, response.String("hello").Write(w, r))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "5", w.Header().Get("Content-Length"))
	})

	t.Run("bodiless statuses", func(t *testing.T) {
		t.Parallel()
		for _, status := range []int{http.StatusNoContent, http.StatusNotModified} {
			w := httptest.NewRecorder()
			resp := response.New(status).SetBody([]byte("ignored"), "text/plain")
			require.NoError(t, resp.Write(w, httptest.NewRequest(http.MethodGet, "/", nil)))
			assert.Equal(t, status, w.Code)
			assert.Empty(t, w.Body.String())
		}
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	resp, err := response.JSON(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, string(resp.Body))

	resp, err = response.JSONWithStatus(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Empty(t, resp.Body)

	_, err = response.JSON(make(chan int))
	assert.Error(t, err)
}

func TestDecorators(t *testing.T) {
	t.Parallel()

	resp := response.WithHeaders(response.String("x"), map[string]string{"X-A": "1", "X-B": "2"})
	assert.Equal(t, "1", resp.Header.Get("X-A"))
	assert.Equal(t, "2", resp.Header.Get("X-B"))

	cached := response.WithCache(response.String("x"), 0)
	assert.Equal(t, "no-cache, no-store, must-revalidate", cached.Header.Get("Cache-Control"))

	redirect := response.Redirect("/login", 0)
	assert.Equal(t, http.StatusFound, redirect.Status)
	assert.Equal(t, "/login", redirect.Header.Get("Location"))

	assert.Nil(t, response.WithHeaders(nil, nil))
}
