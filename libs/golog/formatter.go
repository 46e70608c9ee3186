package golog

import (
	"bytes"
	"encoding"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = "2006-01-02T15:04:05-0700"

type Formatter interface {
	Format(e *Entry) []byte
}

type FormatterFunc func(*Entry) []byte

func (f FormatterFunc) Format(e *Entry) []byte {
	return f(e)
}

func LogfmtFormatter() Formatter {
	return FormatterFunc(func(e *Entry) []byte {
		buf := &bytes.Buffer{}
		buf.WriteString("t=")
		buf.WriteString(e.Time.Format(timeFormat))
		buf.WriteString(" lvl=")
		buf.WriteString(e.Lvl.String())
		buf.WriteString(" msg=")
		buf.WriteString(quoteASCII(e.Msg))
		if e.Src != "" {
			buf.WriteString(" src=")
			buf.WriteString(quoteASCII(e.Src))
		}
		writeContext(buf, e.Ctx)
		buf.WriteByte('\n')
		return buf.Bytes()
	})
}

// TerminalFormatter is a compact human oriented format with the level
// colored for interactive use.
func TerminalFormatter() Formatter {
	return FormatterFunc(func(e *Entry) []byte {
		buf := &bytes.Buffer{}
		c := levelColors[e.Lvl]
		buf.WriteString(string(c))
		fmt.Fprintf(buf, "%-5s", e.Lvl.String())
		if c != colorNone {
			buf.WriteString(string(colorReset))
		}
		buf.WriteByte(' ')
		buf.WriteString(e.Msg)
		writeContext(buf, e.Ctx)
		buf.WriteByte('\n')
		return buf.Bytes()
	})
}

func writeContext(buf *bytes.Buffer, ctx []interface{}) {
	for i := 0; i+1 < len(ctx); i += 2 {
		k, ok := ctx[i].(string)
		if !ok {
			buf.WriteString(" _error=")
		} else {
			buf.WriteByte(' ')
			buf.WriteString(k)
			buf.WriteByte('=')
		}
		buf.WriteString(format(ctx[i+1]))
	}
}

func format(value interface{}) string {
	if value == nil {
		return "nil"
	}

	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', 3, 64)
	case float64:
		return strconv.FormatFloat(v, 'f', 3, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", value)
	case string:
		return quoteASCII(v)
	case time.Time:
		return v.Format(timeFormat)
	case time.Duration:
		return v.String()
	case error:
		return quoteASCII(v.Error())
	case fmt.Stringer:
		return quoteASCII(v.String())
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			return quoteASCII("logFormatError:" + err.Error())
		}
		return quoteASCII(string(b))
	default:
		return quoteASCII(fmt.Sprintf("%+v", value))
	}
}

// quoteASCII leaves simple values bare and quotes anything containing
// spaces, quotes, equal signs or non printable characters.
func quoteASCII(s string) string {
	if s == "" {
		return s
	}
	q := strconv.QuoteToASCII(s)
	if strings.ContainsAny(s, "\" =") || q[1:len(q)-1] != s {
		return q
	}
	return s
}
