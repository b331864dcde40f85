package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	htmldom "github.com/dpotapov/go-htmldom"
	"github.com/dpotapov/go-htmldom/dom"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr     string
	upstream string
	fragment bool
	quoteAll bool
}

// newCmdServe creates the serve command.
func newCmdServe() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve normalized HTML",
		Long: `serve answers WebSocket connections on /ws: every text message is parsed and answered
with the normalized HTML as JSON. With --upstream, all other requests are proxied to that
server and its HTML responses are normalized on the way back.`,
		Example: `  # Normalize the pages of a local development server
  htmltree serve --addr :8081 --upstream http://localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, newLogger(cmd))
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8081", "address to listen on")
	cmd.Flags().StringVar(&opts.upstream, "upstream", "", "URL of the server whose responses are rewritten")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "parse as fragments, without inferring html, head and body")
	cmd.Flags().BoolVar(&opts.quoteAll, "quote-all", false, "quote every attribute value")

	return cmd
}

func newServeMux(opts *serveOptions, logger *slog.Logger) (*http.ServeMux, error) {
	render := dom.RenderOptions{QuoteAllAttributes: opts.quoteAll}

	mux := http.NewServeMux()
	mux.Handle("/ws", &htmldom.SocketHandler{
		Fragment: opts.fragment,
		Render:   render,
		Logger:   logger,
	})

	if opts.upstream != "" {
		u, err := url.Parse(opts.upstream)
		if err != nil {
			return nil, fmt.Errorf("parse upstream URL: %w", err)
		}
		proxy := httputil.NewSingleHostReverseProxy(u)
		// The middleware cannot rewrite compressed bodies.
		director := proxy.Director
		proxy.Director = func(r *http.Request) {
			director(r)
			r.Header.Del("Accept-Encoding")
		}

		mux.Handle("/", &htmldom.Handler{
			Next:     proxy,
			Fragment: opts.fragment,
			Render:   render,
			Logger:   logger,
		})
	}
	return mux, nil
}

func runServe(opts *serveOptions, logger *slog.Logger) error {
	mux, err := newServeMux(opts, logger)
	if err != nil {
		return err
	}
	logger.Info("Listening", "addr", opts.addr, "upstream", opts.upstream)
	return http.ListenAndServe(opts.addr, loggerMiddleware(mux, logger))
}

func loggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP request", "method", r.Method, "url", r.URL.Redacted())
		next.ServeHTTP(w, r)
	})
}
