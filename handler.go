// Package htmldom parses HTML responses into a dom.Document, lets user code change the
// document and writes the re-rendered HTML back to the client.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"sync"

	"github.com/dpotapov/go-htmldom/dom"
)

// Handler is a middleware around Next. HTML responses of Next are parsed, passed to
// Transform and rendered again; other responses are sent unchanged.
type Handler struct {
	// Next produces the original response.
	Next http.Handler

	// Transform is called with the parsed document of every HTML response. A nil Transform
	// only normalizes the markup.
	Transform func(*http.Request, *dom.Document) error

	// Options configure the parser. Options.Logger defaults to Logger.
	Options dom.Options

	// Fragment parses responses without inferring the html, head and body elements, for
	// handlers that answer with partial markup.
	Fragment bool

	// Render configures the output.
	Render dom.RenderOptions

	// OnError is a callback that is called when an error occurs while serving a page.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	// init is used to initialize the handler only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}
		if h.Options.Logger == nil {
			h.Options.Logger = h.logger
		}
	})

	if err := h.handleRequest(w, r); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		h.logger.Error("Serve HTTP request", "url", r.URL.Redacted(), "error", err)

		if h.OnError != nil {
			h.OnError(r, err)
		}
	}
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) error {
	if h.Next == nil {
		return fmt.Errorf("htmldom: Handler.Next is not set")
	}

	rec := newResponseBuffer()
	h.Next.ServeHTTP(rec, r)

	if !rec.isHTML() {
		return rec.flush(w, rec.body.Bytes())
	}

	parse := dom.Parse
	if h.Fragment {
		parse = dom.ParseFragment
	}
	doc, err := parse(bytes.NewReader(rec.body.Bytes()), h.Options)
	if err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if h.Transform != nil {
		if err := h.Transform(r, doc); err != nil {
			return fmt.Errorf("transform document: %w", err)
		}
	}

	var out bytes.Buffer
	if err := doc.Render(&out, h.Render); err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	h.logger.Debug("Rewrote HTML response",
		"url", r.URL.Redacted(),
		"in", rec.body.Len(),
		"out", out.Len())

	return rec.flush(w, out.Bytes())
}

// responseBuffer collects a response so that it can be rewritten before it is sent.
type responseBuffer struct {
	header     http.Header
	statusCode int
	body       bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header)}
}

func (b *responseBuffer) Header() http.Header {
	return b.header
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if b.statusCode == 0 {
		b.statusCode = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *responseBuffer) WriteHeader(statusCode int) {
	if b.statusCode == 0 {
		b.statusCode = statusCode
	}
}

// isHTML reports whether the response is an uncompressed text/html body. Without a
// Content-Type the type is sniffed, as net/http would do.
func (b *responseBuffer) isHTML() bool {
	if b.body.Len() == 0 || b.header.Get("Content-Encoding") != "" {
		return false
	}
	ct := b.header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(b.body.Bytes())
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "text/html"
}

func (b *responseBuffer) flush(w http.ResponseWriter, body []byte) error {
	for k, vv := range b.header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if len(body) > 0 && w.Header().Get("Content-Length") != "" {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	}
	if b.statusCode != 0 {
		w.WriteHeader(b.statusCode)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
