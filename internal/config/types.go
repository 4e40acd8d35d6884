package config

// DefaultService 是 keyring:<key> 引用与 probe 的默认 service。
const DefaultService = "keybridge"

// File 表示 keybridge.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config。
type File struct {
	Service  string      `yaml:"service"`
	Format   string      `yaml:"format"`
	LogLevel string      `yaml:"log_level"`
	Serve    ServeConfig `yaml:"serve"`
	MCP      MCPConfig   `yaml:"mcp"`
}

// ServeConfig 配置 stdio 命令通道。
type ServeConfig struct {
	Framing string `yaml:"framing"` // lines | native
}

type MCPConfig struct {
	Transport string        `yaml:"transport"` // stdio | streamable_http
	HTTP      MCPHTTPConfig `yaml:"http"`
}

type MCPHTTPConfig struct {
	Addr                string `yaml:"addr"`
	AuthToken           string `yaml:"auth_token"` // 支持 keyring:<service>/<key> 引用
	AllowPlaintextToken bool   `yaml:"allow_plaintext_token"`
}

type Resolved struct {
	ConfigPath string
	File       File
	Service    string
	Format     string
	LogLevel   string
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIFormat      string
	CLIFormatSet   bool
	CLILogLevel    string
	CLILogLevelSet bool

	// ENV（由调用方注入，便于测试）
	EnvFormat   string
	EnvLogLevel string
	EnvService  string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}
