package keychain

import (
	"github.com/zalando/go-keyring"
)

// memStore 模拟 OS secret store，not found 时返回 keyring.ErrNotFound（与真实实现一致）
type memStore struct {
	data  map[string]map[string]string // service -> key -> value
	calls int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]map[string]string)}
}

func (m *memStore) put(service, key, value string) {
	if m.data[service] == nil {
		m.data[service] = make(map[string]string)
	}
	m.data[service][key] = value
}

func (m *memStore) Get(service, key string) (string, error) {
	m.calls++
	if svc, ok := m.data[service]; ok {
		if v, ok := svc[key]; ok {
			return v, nil
		}
	}
	return "", keyring.ErrNotFound
}

func (m *memStore) Set(service, key, value string) error {
	m.calls++
	m.put(service, key, value)
	return nil
}

func (m *memStore) Delete(service, key string) error {
	m.calls++
	if svc, ok := m.data[service]; ok {
		if _, ok := svc[key]; ok {
			delete(svc, key)
			return nil
		}
	}
	return keyring.ErrNotFound
}

// failingStore 每次调用都返回同一个平台错误
type failingStore struct {
	err error
}

func (f failingStore) Get(string, string) (string, error) { return "", f.err }
func (f failingStore) Set(string, string, string) error   { return f.err }
func (f failingStore) Delete(string, string) error        { return f.err }
