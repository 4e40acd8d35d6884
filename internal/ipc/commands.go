// Package ipc 实现进程间命令通道：把命名命令 + 参数对象分派给 keychain.Bridge，
// 并以统一的 Result 形状回复。
package ipc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/zx06/keybridge/internal/keychain"
	"github.com/zx06/keybridge/internal/log"
)

// 命令名与桌面壳层 invoke 使用的名字保持一致。
const (
	CommandSet    = "keychain_set"
	CommandGet    = "keychain_get"
	CommandDelete = "keychain_delete"
)

// Request 是一条命令请求。ID 原样回显（任意 JSON 值）。
type Request struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response 是 Result 加上回显的 ID。
type Response struct {
	ID json.RawMessage `json:"id,omitempty"`
	keychain.Result
}

type command struct {
	params []string
	run    func(b *keychain.Bridge, args []string) keychain.Result
}

var commands = map[string]command{
	CommandSet: {
		params: []string{"service", "key", "value"},
		run: func(b *keychain.Bridge, a []string) keychain.Result {
			return b.Set(a[0], a[1], a[2])
		},
	},
	CommandGet: {
		params: []string{"service", "key"},
		run: func(b *keychain.Bridge, a []string) keychain.Result {
			return b.Get(a[0], a[1])
		},
	},
	CommandDelete: {
		params: []string{"service", "key"},
		run: func(b *keychain.Bridge, a []string) keychain.Result {
			return b.Delete(a[0], a[1])
		},
	},
}

// Commands 返回已注册命令名（排序）。
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params 返回命令的参数名；未知命令返回 nil。
func Params(name string) []string {
	return commands[name].params
}

// Dispatcher 把 Request 分派给 Bridge。无共享可变状态，可并发调用。
type Dispatcher struct {
	bridge *keychain.Bridge
	logger *slog.Logger
}

func NewDispatcher(bridge *keychain.Bridge, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Dispatcher{bridge: bridge, logger: logger}
}

// Invoke 执行一条命令；所有失败都以 success=false 的 Response 返回。
func (d *Dispatcher) Invoke(req Request) Response {
	cmd, ok := commands[req.Command]
	if !ok {
		d.logger.Debug("unknown command", "command", req.Command)
		return Response{ID: req.ID, Result: keychain.Failf(fmt.Sprintf("unknown command %q", req.Command))}
	}
	args, msg := decodeArgs(req.Args, cmd.params)
	if msg != "" {
		d.logger.Debug("invalid arguments", "command", req.Command, "reason", msg)
		return Response{ID: req.ID, Result: keychain.Failf(msg)}
	}
	return Response{ID: req.ID, Result: cmd.run(d.bridge, args)}
}

// decodeArgs 按 params 顺序取出字符串参数。缺失的参数报错；空串原样传给 store。
func decodeArgs(raw json.RawMessage, params []string) ([]string, string) {
	fields := map[string]json.RawMessage{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Sprintf("invalid arguments: %v", err)
		}
	}
	out := make([]string, len(params))
	for i, name := range params {
		v, ok := fields[name]
		if !ok || string(v) == "null" {
			return nil, fmt.Sprintf("missing required argument %q", name)
		}
		if err := json.Unmarshal(v, &out[i]); err != nil {
			return nil, fmt.Sprintf("argument %q must be a string", name)
		}
	}
	return out, ""
}
