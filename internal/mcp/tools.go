package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/ipc"
	"github.com/zx06/keybridge/internal/keychain"
)

var toolDescriptions = map[string]string{
	ipc.CommandSet:    "Store a secret in the OS keychain under (service, key)",
	ipc.CommandGet:    "Read a secret from the OS keychain",
	ipc.CommandDelete: "Delete a secret from the OS keychain",
}

var paramDescriptions = map[string]string{
	"service": "Keychain service name",
	"key":     "Account / key within the service",
	"value":   "Secret value to store",
}

// ToolHandler 把 MCP 工具调用转成 ipc 命令。
type ToolHandler struct {
	dispatcher *ipc.Dispatcher
}

// NewToolHandler creates a new tool handler
func NewToolHandler(d *ipc.Dispatcher) *ToolHandler {
	return &ToolHandler{dispatcher: d}
}

// RegisterTools registers one tool per keychain command.
func (h *ToolHandler) RegisterTools(server *mcp.Server) {
	for _, name := range ipc.Commands() {
		server.AddTool(&mcp.Tool{
			Name:        name,
			Description: toolDescriptions[name],
			InputSchema: inputSchema(ipc.Params(name)),
		}, h.handlerFor(name))
	}
}

func inputSchema(params []string) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(params))
	for _, p := range params {
		props[p] = &jsonschema.Schema{
			Type:        "string",
			Description: paramDescriptions[p],
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Required:   params,
		Properties: props,
	}
}

func (h *ToolHandler) handlerFor(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		resp := h.dispatcher.Invoke(ipc.Request{Command: name, Args: args})
		return toolResult(resp.Result), nil
	}
}

// toolResult 以 Result 的 JSON 作为文本内容；IsError 与 !success 一致。
func toolResult(r keychain.Result) *mcp.CallToolResult {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		xe := errors.Wrap(errors.CodeInternal, "failed to marshal result", nil, err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: xe.Error()}},
		}
	}
	return &mcp.CallToolResult{
		IsError: !r.Success,
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// CreateServer creates a new MCP server
func CreateServer(version string, d *ipc.Dispatcher) (*mcp.Server, error) {
	if d == nil {
		return nil, errors.New(errors.CodeInternal, "dispatcher is nil", nil)
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "keybridge",
		Version: version,
	}, nil)

	NewToolHandler(d).RegisterTools(server)

	return server, nil
}
