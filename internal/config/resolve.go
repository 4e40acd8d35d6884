package config

import (
	"github.com/zx06/keybridge/internal/errors"
)

// Resolve 合并配置文件、ENV 与 CLI：CLI > ENV > Config > 默认值。
func Resolve(opts Options) (Resolved, *errors.XError) {
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// format：--format > KEYBRIDGE_FORMAT > format > auto
	format := FirstNonEmpty(
		ValueIfSet(opts.CLIFormatSet, opts.CLIFormat),
		opts.EnvFormat,
		cfg.Format,
		"auto",
	)

	// log level：--log-level > KEYBRIDGE_LOG_LEVEL > log_level > info
	logLevel := FirstNonEmpty(
		ValueIfSet(opts.CLILogLevelSet, opts.CLILogLevel),
		opts.EnvLogLevel,
		cfg.LogLevel,
		"info",
	)

	// service：KEYBRIDGE_SERVICE > service > keybridge
	service := FirstNonEmpty(opts.EnvService, cfg.Service, DefaultService)

	return Resolved{
		ConfigPath: cfgPath,
		File:       cfg,
		Service:    service,
		Format:     format,
		LogLevel:   logLevel,
	}, nil
}

// ValueIfSet 仅在 flag 显式设置时返回其值，用于 CLI > ENV > config 的合并。
func ValueIfSet(set bool, value string) string {
	if !set {
		return ""
	}
	return value
}

// FirstNonEmpty 返回第一个非空值。
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
