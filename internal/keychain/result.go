package keychain

import "strconv"

// Result 是每次调用的统一返回形状，跨 CLI / serve / MCP 保持一致。
//   - Success=true 时 Error 恒为 nil
//   - get 成功时 Value 非 nil（可以是空串）
//   - set/delete 的 Value 恒为 nil
type Result struct {
	Success bool    `json:"success" yaml:"success"`
	Value   *string `json:"value" yaml:"value"`
	Error   *string `json:"error" yaml:"error"`
}

// OK 构造 set/delete 的成功结果。
func OK() Result {
	return Result{Success: true}
}

// OKValue 构造 get 的成功结果。
func OKValue(v string) Result {
	return Result{Success: true, Value: &v}
}

// Fail 原样透传平台错误文本，不做归类。
func Fail(err error) Result {
	msg := err.Error()
	return Result{Success: false, Error: &msg}
}

// Failf 用于调用边界自身（参数缺失、未知命令）产生的失败。
func Failf(msg string) Result {
	return Result{Success: false, Error: &msg}
}

// ErrorText 返回错误文本，成功时为空串。
func (r Result) ErrorText() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// ValueText 返回值文本，无值时为空串。
func (r Result) ValueText() string {
	if r.Value == nil {
		return ""
	}
	return *r.Value
}

// KeyValues 供 table/csv 输出逐字段展示；nil 字段显示为 <null>。
func (r Result) KeyValues() [][2]string {
	null := func(p *string) string {
		if p == nil {
			return "<null>"
		}
		return *p
	}
	return [][2]string{
		{"success", strconv.FormatBool(r.Success)},
		{"value", null(r.Value)},
		{"error", null(r.Error)},
	}
}
