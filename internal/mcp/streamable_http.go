package mcp

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/log"
)

const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable_http"

	DefaultHTTPAddr = "127.0.0.1:8787"
)

const (
	authHeader    = "Authorization"
	bearerPrefix  = "Bearer "
	unauthorized  = "unauthorized"
	headerMissing = "authorization header is required"

	shutdownTimeout = 5 * time.Second
)

// NewStreamableHTTPHandler creates a streamable HTTP handler guarded by a bearer token.
func NewStreamableHTTPHandler(server *mcp.Server, authToken string, logger *slog.Logger) (http.Handler, error) {
	if server == nil {
		return nil, errors.New(errors.CodeInternal, "mcp server is nil", nil)
	}
	if authToken == "" {
		return nil, errors.New(errors.CodeCfgInvalid, "mcp streamable http auth token is required", nil)
	}
	if logger == nil {
		logger = log.Discard()
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
	return requireAuth(handler, authToken, logger), nil
}

// ServeStreamableHTTP listens on addr until ctx is done, then shuts down gracefully.
func ServeStreamableHTTP(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = log.Discard()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mcp http listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(errors.CodeInternal, "mcp http server failed", map[string]any{"addr": addr}, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.CodeInternal, "mcp http shutdown failed", nil, err)
		}
		if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(errors.CodeInternal, "mcp http server failed", map[string]any{"addr": addr}, err)
		}
		logger.Info("mcp http stopped", "addr", addr)
		return nil
	}
}

func requireAuth(next http.Handler, token string, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		auth := strings.TrimSpace(req.Header.Get(authHeader))
		if auth == "" {
			logger.Warn("mcp http request rejected", "remote", req.RemoteAddr, "reason", "missing header")
			http.Error(w, headerMissing, http.StatusUnauthorized)
			return
		}
		received, ok := strings.CutPrefix(auth, bearerPrefix)
		if !ok || subtle.ConstantTimeCompare([]byte(received), []byte(token)) != 1 {
			logger.Warn("mcp http request rejected", "remote", req.RemoteAddr, "reason", unauthorized)
			http.Error(w, unauthorized, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, req)
	})
}
