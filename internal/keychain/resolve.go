package keychain

import (
	"strings"

	"github.com/zx06/keybridge/internal/errors"
)

const keyringPrefix = "keyring:"

// Options 控制引用解析行为。
type Options struct {
	AllowPlaintext bool   // 是否允许明文（默认 false）
	Service        string // keyring:<key> 形式使用的默认 service
	Store          Store  // 可注入的 Store 实现（nil 则用默认）
}

// Resolve 解析配置中的 secret 值：
//  1. keyring:<service>/<key> 或 keyring:<key> → 从 Store 读取
//  2. 否则若允许明文 → 直接返回
//  3. 否则报错
func Resolve(raw string, opts Options) (string, *errors.XError) {
	if IsKeyringRef(raw) {
		service, key, xe := parseKeyringRef(strings.TrimPrefix(raw, keyringPrefix), opts.Service)
		if xe != nil {
			return "", xe
		}
		st := opts.Store
		if st == nil {
			st = DefaultStore()
		}
		val, err := st.Get(service, key)
		if err != nil {
			return "", errors.Wrap(errors.CodeSecretNotFound, "failed to read secret from keyring", map[string]any{"service": service, "key": key}, err)
		}
		return val, nil
	}
	if opts.AllowPlaintext {
		return raw, nil
	}
	return "", errors.New(errors.CodeCfgInvalid, "plaintext secret not allowed; use keyring: reference or enable plaintext explicitly", nil)
}

// IsKeyringRef 判断值是否为 keyring 引用。
func IsKeyringRef(s string) bool {
	return strings.HasPrefix(s, keyringPrefix)
}

// parseKeyringRef 以第一个 "/" 切分 service 与 key；没有 "/" 时使用默认 service。
// key 本身含 "/" 时必须写出 service。
func parseKeyringRef(ref, defaultService string) (string, string, *errors.XError) {
	if ref == "" {
		return "", "", errors.New(errors.CodeCfgInvalid, "empty keyring reference", nil)
	}
	service, key, ok := strings.Cut(ref, "/")
	if !ok {
		service, key = defaultService, ref
	}
	if service == "" || key == "" {
		return "", "", errors.New(errors.CodeCfgInvalid, "invalid keyring reference; want keyring:<service>/<key>", map[string]any{"ref": ref})
	}
	return service, key, nil
}
