package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/zx06/keybridge/internal/app"
	"github.com/zx06/keybridge/internal/config"
	"github.com/zx06/keybridge/internal/errors"
	mcp_pkg "github.com/zx06/keybridge/internal/mcp"
	"github.com/zx06/keybridge/internal/output"
)

// NewMCPCommand creates the MCP command group
func NewMCPCommand(w *output.Writer) *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP (Model Context Protocol) server commands",
	}

	mcpCmd.AddCommand(newMCPServerCommand(w))

	return mcpCmd
}

// newMCPServerCommand creates the MCP server command
func newMCPServerCommand(w *output.Writer) *cobra.Command {
	opts := &mcpServerOptions{}
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start MCP server exposing keychain tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.transportSet = cmd.Flags().Changed("transport")
			opts.httpAddrSet = cmd.Flags().Changed("http-addr")
			opts.httpAuthTokenSet = cmd.Flags().Changed("http-auth-token")
			return runMCPServer(cmd.Context(), opts, w)
		},
	}
	cmd.Flags().StringVar(&opts.transport, "transport", mcp_pkg.TransportStdio, "MCP transport: stdio|streamable_http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", mcp_pkg.DefaultHTTPAddr, "Streamable HTTP listen address")
	cmd.Flags().StringVar(&opts.httpAuthToken, "http-auth-token", "", "Streamable HTTP auth token (required for streamable_http)")
	return cmd
}

// runMCPServer runs the MCP server
func runMCPServer(ctx context.Context, opts *mcpServerOptions, w *output.Writer) error {
	rt, err := newRuntime(w)
	if err != nil {
		return err
	}

	server, err := mcp_pkg.CreateServer(version, rt.Dispatcher)
	if err != nil {
		if xe, ok := errors.As(err); ok {
			return xe
		}
		return errors.Wrap(errors.CodeInternal, "failed to create MCP server", nil, err)
	}

	resolved, xe := resolveMCPServerOptions(opts, rt)
	if xe != nil {
		return xe
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.Logger.Info("mcp server starting", "transport", resolved.transport)
	switch resolved.transport {
	case mcp_pkg.TransportStdio:
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return errors.Wrap(errors.CodeInternal, "mcp stdio server failed", nil, err)
		}
		return nil
	case mcp_pkg.TransportStreamableHTTP:
		handler, err := mcp_pkg.NewStreamableHTTPHandler(server, resolved.httpAuthToken, rt.Logger)
		if err != nil {
			if xe, ok := errors.As(err); ok {
				return xe
			}
			return errors.Wrap(errors.CodeInternal, "failed to create streamable http handler", nil, err)
		}
		return mcp_pkg.ServeStreamableHTTP(ctx, resolved.httpAddr, handler, rt.Logger)
	default:
		return errors.New(errors.CodeCfgInvalid, "unsupported mcp transport", map[string]any{"transport": resolved.transport})
	}
}

type mcpServerOptions struct {
	transport        string
	transportSet     bool
	httpAddr         string
	httpAddrSet      bool
	httpAuthToken    string
	httpAuthTokenSet bool
}

type mcpServerResolved struct {
	transport     string
	httpAddr      string
	httpAuthToken string
}

func resolveMCPServerOptions(opts *mcpServerOptions, rt *app.Runtime) (mcpServerResolved, *errors.XError) {
	if opts == nil {
		opts = &mcpServerOptions{}
	}
	var cfg config.MCPConfig
	if rt != nil {
		cfg = rt.Config.File.MCP
	}

	transport := config.FirstNonEmpty(
		config.ValueIfSet(opts.transportSet, opts.transport),
		os.Getenv("KEYBRIDGE_MCP_TRANSPORT"),
		cfg.Transport,
		mcp_pkg.TransportStdio,
	)
	if transport != mcp_pkg.TransportStdio && transport != mcp_pkg.TransportStreamableHTTP {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "invalid mcp transport", map[string]any{"transport": transport})
	}

	httpAddr := config.FirstNonEmpty(
		config.ValueIfSet(opts.httpAddrSet, opts.httpAddr),
		os.Getenv("KEYBRIDGE_MCP_HTTP_ADDR"),
		cfg.HTTP.Addr,
		mcp_pkg.DefaultHTTPAddr,
	)

	authToken := config.FirstNonEmpty(
		config.ValueIfSet(opts.httpAuthTokenSet, opts.httpAuthToken),
		os.Getenv("KEYBRIDGE_MCP_HTTP_AUTH_TOKEN"),
	)
	if authToken == "" && cfg.HTTP.AuthToken != "" && rt != nil {
		secretValue, xe := rt.ResolveSecret(cfg.HTTP.AuthToken, cfg.HTTP.AllowPlaintextToken, nil)
		if xe != nil {
			if errors.HasCode(xe, errors.CodeSecretNotFound) {
				xe = xe.WithDetail("hint", fmt.Sprintf("store the token first: keybridge set %v %v", xe.Details["service"], xe.Details["key"]))
			}
			return mcpServerResolved{}, xe
		}
		authToken = secretValue
	}

	if transport == mcp_pkg.TransportStreamableHTTP && authToken == "" {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "streamable http transport requires auth token", nil)
	}

	return mcpServerResolved{
		transport:     transport,
		httpAddr:      httpAddr,
		httpAuthToken: authToken,
	}, nil
}
