package output

import "strings"

// Format 输出格式
type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// Formats 返回全部可选格式，顺序固定。
func Formats() []Format {
	return []Format{FormatAuto, FormatJSON, FormatYAML, FormatTable, FormatCSV}
}

func IsValid(f Format) bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormat 忽略大小写与首尾空白；空串视为 auto。
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatAuto, true
	}
	f := Format(s)
	return f, IsValid(f)
}
