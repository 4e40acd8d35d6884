package app

import (
	"io"
	"log/slog"

	"github.com/zx06/keybridge/internal/config"
	"github.com/zx06/keybridge/internal/errors"
	"github.com/zx06/keybridge/internal/ipc"
	"github.com/zx06/keybridge/internal/keychain"
	"github.com/zx06/keybridge/internal/log"
)

// Runtime 持有一次进程运行所需的已装配组件。
type Runtime struct {
	Config     config.Resolved
	Logger     *slog.Logger
	Bridge     *keychain.Bridge
	Dispatcher *ipc.Dispatcher
}

// NewRuntime 按解析后的配置装配 logger、Bridge 与 Dispatcher。
// store 为 nil 时使用 OS keyring；日志写到 logOut（应为 stderr）。
func NewRuntime(cfg config.Resolved, logOut io.Writer, store keychain.Store) (*Runtime, *errors.XError) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		if xe, ok := errors.As(err); ok {
			return nil, xe
		}
		return nil, errors.Wrap(errors.CodeCfgInvalid, "invalid log level", nil, err)
	}
	logger := log.New(logOut, level)
	bridge := keychain.New(store, logger)
	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Bridge:     bridge,
		Dispatcher: ipc.NewDispatcher(bridge, logger),
	}, nil
}

// ResolveSecret 解析配置中的 keyring: 引用，默认 service 取自配置。
func (r *Runtime) ResolveSecret(raw string, allowPlaintext bool, store keychain.Store) (string, *errors.XError) {
	return keychain.Resolve(raw, keychain.Options{
		AllowPlaintext: allowPlaintext,
		Service:        r.Config.Service,
		Store:          store,
	})
}
