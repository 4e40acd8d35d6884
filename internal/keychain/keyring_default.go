//go:build !windows

package keychain

import "github.com/zalando/go-keyring"

func (o *osStore) Get(service, key string) (string, error) {
	return keyring.Get(service, key)
}

func (o *osStore) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}

func (o *osStore) Delete(service, key string) error {
	return keyring.Delete(service, key)
}
