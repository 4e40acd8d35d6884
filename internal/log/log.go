package log

import (
	"io"
	"log/slog"
	"strings"

	"github.com/zx06/keybridge/internal/errors"
)

// New 返回写入到 w 的 slog.Logger。
// 注意：stdout 是数据通道（含 serve 的响应帧），日志必须写 stderr（由调用方传入）。
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// ParseLevel 解析 debug|info|warn|error；空串视为 info。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New(errors.CodeCfgInvalid, "invalid log level", map[string]any{"log_level": s})
	}
}

// Discard 丢弃所有日志，供测试与未注入 logger 的调用方使用。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
