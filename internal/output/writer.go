package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zx06/keybridge/internal/errors"
)

type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

func (w Writer) WriteOK(format Format, data any) error {
	return w.write(format, Envelope{OK: true, SchemaVersion: SchemaVersion, Data: data})
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	errObj := &ErrorObject{Code: xe.Code, Message: xe.Message, Details: xe.Details}
	return w.write(format, Envelope{OK: false, SchemaVersion: SchemaVersion, Error: errObj})
}

func (w Writer) write(format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(env)
	case FormatYAML:
		b, err := yaml.Marshal(env)
		if err != nil {
			return err
		}
		_, err = w.Out.Write(b)
		if err != nil {
			return err
		}
		if len(b) == 0 || b[len(b)-1] != '\n' {
			_, _ = w.Out.Write([]byte("\n"))
		}
		return nil
	case FormatTable:
		return writeTable(w.Out, env)
	case FormatCSV:
		return writeCSV(w.Out, env)
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

// rows 把 envelope 展开成 key/value 行；table 与 csv 共用，不输出 ok/schema_version。
func rows(env Envelope) [][2]string {
	if !env.OK {
		if env.Error == nil {
			return [][2]string{{"error", "unknown"}}
		}
		return [][2]string{
			{"error.code", string(env.Error.Code)},
			{"error.message", env.Error.Message},
		}
	}
	switch d := env.Data.(type) {
	case nil:
		return nil
	case KeyValuer:
		return d.KeyValues()
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([][2]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, [2]string{k, cell(d[k])})
		}
		return out
	default:
		return [][2]string{{"data", cell(d)}}
	}
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "<null>"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case bool, int, int64, float64:
		return fmt.Sprint(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func writeTable(out io.Writer, env Envelope) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for _, r := range rows(env) {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func writeCSV(out io.Writer, env Envelope) error {
	cw := csv.NewWriter(out)
	for _, r := range rows(env) {
		_ = cw.Write([]string{r[0], r[1]})
	}
	cw.Flush()
	return cw.Error()
}
