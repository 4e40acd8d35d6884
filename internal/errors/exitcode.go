package errors

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	// 3: OS secret store 返回错误
	ExitKeychain ExitCode = 3

	// 4: stdio 命令通道协议错误
	ExitProtocol ExitCode = 4

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeCfgNotFound, CodeCfgInvalid, CodeSecretNotFound:
		return ExitConfig
	case CodeKeychainFailed:
		return ExitKeychain
	case CodeIPCProtocol:
		return ExitProtocol
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
