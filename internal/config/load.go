package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zx06/keybridge/internal/errors"
)

const fileName = "keybridge.yaml"

// candidates 返回按优先级排列的配置路径；explicit 为 true 时路径必须存在。
func candidates(opts Options) (paths []string, explicit bool) {
	if opts.ConfigPath != "" {
		p := opts.ConfigPath
		if !filepath.IsAbs(p) && opts.WorkDir != "" {
			p = filepath.Join(opts.WorkDir, p)
		}
		return []string{p}, true
	}
	if opts.WorkDir != "" {
		paths = append(paths, filepath.Join(opts.WorkDir, fileName))
	}
	if opts.HomeDir != "" {
		paths = append(paths, filepath.Join(opts.HomeDir, ".config", "keybridge", fileName))
	}
	return paths, false
}

// decode 严格解析：未知字段视为配置错误，空文件得到零值。
func decode(path string, b []byte) (File, *errors.XError) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !stderrors.Is(err, io.EOF) {
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "invalid config file", map[string]any{"path": path}, err)
	}
	return f, nil
}

// LoadConfig 加载配置文件，返回完整配置和配置文件路径。
// 未显式指定且默认位置都不存在时返回空配置，不算错误。
func LoadConfig(opts Options) (File, string, *errors.XError) {
	if opts.WorkDir == "" {
		opts.WorkDir, _ = os.Getwd()
	}
	if opts.HomeDir == "" {
		opts.HomeDir, _ = os.UserHomeDir()
	}

	paths, explicit := candidates(opts)
	for _, p := range paths {
		b, err := os.ReadFile(p)
		switch {
		case err == nil:
			f, xe := decode(p, b)
			if xe != nil {
				return File{}, "", xe
			}
			return f, p, nil
		case os.IsNotExist(err) && !explicit:
			continue
		case os.IsNotExist(err):
			return File{}, "", errors.New(errors.CodeCfgNotFound, "config file not found", map[string]any{"path": p})
		default:
			return File{}, "", errors.Wrap(errors.CodeCfgInvalid, "failed to read config file", map[string]any{"path": p}, err)
		}
	}
	return File{}, "", nil
}
