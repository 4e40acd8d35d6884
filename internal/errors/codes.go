package errors

// Code 是稳定错误码（字符串），供 AI/agent 与程序判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound    Code = "KEYBRIDGE_CFG_NOT_FOUND"
	CodeCfgInvalid     Code = "KEYBRIDGE_CFG_INVALID"
	CodeSecretNotFound Code = "KEYBRIDGE_SECRET_NOT_FOUND"

	// OS secret store 拒绝了请求（原始平台错误原样透传）
	CodeKeychainFailed Code = "KEYBRIDGE_KEYCHAIN_FAILED"

	// stdio 命令通道
	CodeIPCProtocol Code = "KEYBRIDGE_IPC_PROTOCOL"

	// Internal
	CodeInternal Code = "KEYBRIDGE_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeSecretNotFound,
		CodeKeychainFailed,
		CodeIPCProtocol,
		CodeInternal,
	}
}
