//go:build windows

package keychain

import (
	"strings"

	"github.com/zalando/go-keyring"
)

func (o *osStore) Get(service, key string) (string, error) {
	val, err := keyring.Get(service, key)
	if err != nil {
		return "", err
	}
	// 经 cmdkey 写入的凭据按 UTF-16 存储，读回时字符间夹带 null 字节
	return strings.ReplaceAll(val, "\x00", ""), nil
}

func (o *osStore) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}

func (o *osStore) Delete(service, key string) error {
	return keyring.Delete(service, key)
}
