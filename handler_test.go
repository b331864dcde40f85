package htmldom

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dpotapov/go-htmldom/dom"
	"github.com/dpotapov/go-htmldom/htmldata"
	"github.com/stretchr/testify/require"
)

func backend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Backend", "1")
		fmt.Fprint(w, "<title>T</title><ul><li>a<li>b</ul>")
	})
	mux.HandleFunc("GET /sniffed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<!DOCTYPE html><p>x")
	})
	mux.HandleFunc("GET /partial", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<li>a<li>b")
	})
	mux.HandleFunc("GET /list", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<ul><li>1<li>2<li>3</ul>")
	})
	mux.HandleFunc("GET /data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"html":"<p>x"}`)
	})
	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<p>not found")
	})
	return mux
}

func TestHandler(t *testing.T) {
	tests := []struct {
		url        string
		fragment   bool
		wantStatus int
		wantBody   string
	}{
		{"/page", false, 200, "<html><head><title>T</title></head><body><ul><li>a</li><li>b</li></ul></body></html>"},
		{"/sniffed", false, 200, "<!DOCTYPE html><html><body><p>x</p></body></html>"},
		{"/partial", true, 200, "<li>a</li><li>b</li>"},
		{"/data.json", false, 200, `{"html":"<p>x"}`},
		{"/missing", false, 404, "<html><body><p>not found</p></body></html>"},
		{"/nowhere", false, 404, "404 page not found\n"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			var err error
			h := &Handler{
				Next:     backend(),
				Fragment: tt.fragment,
				Options:  dom.Options{Registry: htmldata.NewRegistry()},
				OnError:  func(r *http.Request, handlerErr error) { err = handlerErr },
			}

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestHandler_Transform(t *testing.T) {
	h := &Handler{
		Next: backend(),
		Transform: func(r *http.Request, d *dom.Document) error {
			for _, li := range d.ElementsByTag("li") {
				if err := d.AppendChild(li, d.NewText("!")); err != nil {
					return err
				}
			}
			ul := d.ElementsByTag("ul")[0]
			return d.AppendChild(ul, d.NewElement("li"))
		},
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/page", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "1", rr.Header().Get("X-Backend"))
	require.Contains(t, rr.Body.String(), "<ul><li>a!</li><li>b!</li><li></li></ul>")
}

func TestHandler_TransformError(t *testing.T) {
	transformErr := errors.New("boom")
	var got error
	h := &Handler{
		Next:      backend(),
		Transform: func(*http.Request, *dom.Document) error { return transformErr },
		OnError:   func(r *http.Request, err error) { got = err },
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/page", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Internal Server Error\n", rr.Body.String())
	require.ErrorIs(t, got, transformErr)
}

func TestHandler_ParseError(t *testing.T) {
	enc, err := htmldata.NewPathEncoding("ab", 1)
	require.NoError(t, err)

	var got error
	h := &Handler{
		Next:     backend(),
		Fragment: true,
		Options:  dom.Options{Registry: htmldata.NewRegistry(), PathEncoding: enc},
		OnError:  func(r *http.Request, err error) { got = err },
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/list", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.ErrorIs(t, got, htmldata.ErrOverflow)
	var be *dom.BuildError
	require.ErrorAs(t, got, &be)
	require.Equal(t, "/ul", be.Path)
	require.True(t, strings.HasPrefix(got.Error(), "parse response: /ul: "))
}

func TestHandler_NoNext(t *testing.T) {
	var got error
	h := &Handler{OnError: func(r *http.Request, err error) { got = err }}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Error(t, got)
}
