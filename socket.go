package htmldom

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/dpotapov/go-htmldom/dom"
	"github.com/gorilla/websocket"
)

// wsUpgrader is a Gorilla WebSocket instance, used to respond HTTP requests with WebSocket.
var wsUpgrader = websocket.Upgrader{}

// SocketHandler normalizes HTML over a WebSocket connection. Every text message is parsed
// and answered with a SocketReply, until the client closes the connection.
type SocketHandler struct {
	// Options configure the parser. Options.Logger defaults to Logger.
	Options dom.Options

	// Fragment parses messages without inferring the html, head and body elements.
	Fragment bool

	// Render configures the output.
	Render dom.RenderOptions

	// OnError is a callback that is called when the connection fails.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	init   sync.Once
	logger *slog.Logger
}

// SocketReply is the JSON answer to one message. Either HTML or Error is set. Path and
// Context locate a build error in the input.
type SocketReply struct {
	HTML    string `json:"html,omitempty"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path,omitempty"`
	Context string `json:"context,omitempty"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}
		if h.Options.Logger == nil {
			h.Options.Logger = h.logger
		}
	})

	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "expected a WebSocket upgrade", http.StatusBadRequest)
		return
	}

	if err := h.serveSocket(w, r); err != nil {
		h.logger.Error("Serve WebSocket", "url", r.URL.Redacted(), "error", err)

		if h.OnError != nil {
			h.OnError(r, err)
		}
	}
}

func (h *SocketHandler) serveSocket(w http.ResponseWriter, r *http.Request) error {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	for {
		mt, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read websocket message: %w", err)
		}
		if mt != websocket.TextMessage {
			continue
		}

		if err := ws.WriteJSON(h.reply(string(msg))); err != nil {
			return fmt.Errorf("write websocket message: %w", err)
		}
	}
}

func (h *SocketHandler) reply(src string) SocketReply {
	parse := dom.Parse
	if h.Fragment {
		parse = dom.ParseFragment
	}

	doc, err := parse(strings.NewReader(src), h.Options)
	if err != nil {
		rep := SocketReply{Error: err.Error()}
		var be *dom.BuildError
		if errors.As(err, &be) {
			rep.Path = be.Path
			rep.Context = be.HTMLContext()
		}
		return rep
	}

	var sb strings.Builder
	if err := doc.Render(&sb, h.Render); err != nil {
		return SocketReply{Error: err.Error()}
	}
	return SocketReply{HTML: sb.String()}
}
