package keychain

import (
	"log/slog"

	"github.com/zx06/keybridge/internal/log"
)

// Bridge 把 set/get/delete 转发给 Store，并把结果映射为 Result。
// 每次调用只对 Store 做一次调用：不重试、不缓存、不加锁，也不校验 service/key。
type Bridge struct {
	store  Store
	logger *slog.Logger
}

// New 创建 Bridge；store 为 nil 时使用 OS keyring，logger 为 nil 时丢弃日志。
func New(store Store, logger *slog.Logger) *Bridge {
	if store == nil {
		store = DefaultStore()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Bridge{store: store, logger: logger}
}

// Set 把 value 存到 (service, key) 下。
func (b *Bridge) Set(service, key, value string) Result {
	err := b.store.Set(service, key, value)
	b.trace("set", service, key, err)
	if err != nil {
		return Fail(err)
	}
	return OK()
}

// Get 读取 (service, key) 的值；"not found" 同样是失败。
func (b *Bridge) Get(service, key string) Result {
	val, err := b.store.Get(service, key)
	b.trace("get", service, key, err)
	if err != nil {
		return Fail(err)
	}
	return OKValue(val)
}

// Delete 删除 (service, key)。
func (b *Bridge) Delete(service, key string) Result {
	err := b.store.Delete(service, key)
	b.trace("delete", service, key, err)
	if err != nil {
		return Fail(err)
	}
	return OK()
}

// trace 只记录 service/key，永不记录值。
func (b *Bridge) trace(op, service, key string, err error) {
	if err != nil {
		b.logger.Debug("keychain call failed", "op", op, "service", service, "key", key, "err", err)
		return
	}
	b.logger.Debug("keychain call", "op", op, "service", service, "key", key)
}
