package keychain

// Store 是对 OS secret store 的最小抽象，便于测试与跨平台。
// service/key 即 keyring 的 service name 与 user/account。
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// DefaultStore 返回基于 zalando/go-keyring 的实现；
// Windows Credential Manager / macOS Keychain / Linux Secret Service 由其按平台选择。
// Get/Set/Delete 见 keyring_*.go（按平台编译）。
func DefaultStore() Store {
	return &osStore{}
}

type osStore struct{}
