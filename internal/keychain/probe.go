package keychain

import (
	stderrors "errors"

	"github.com/zalando/go-keyring"
)

// probeKey 是一个保留账户名，只读不写。
const probeKey = "__keybridge_probe__"

// Probe 检查 OS secret store 是否可用：读取保留 key，
// 读到值或得到 "not found" 都说明 store 在响应。
func (b *Bridge) Probe(service string) error {
	_, err := b.store.Get(service, probeKey)
	if err == nil || stderrors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	b.logger.Debug("keychain probe failed", "service", service, "err", err)
	return err
}
