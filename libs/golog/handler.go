package golog

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type HandlerFunc func(e *Entry) error

func (h HandlerFunc) Log(e *Entry) error {
	return h(e)
}

// IOHandler writes WARN and above to err and everything else to out.
func IOHandler(out, err io.Writer, fmtr Formatter) Handler {
	return &ioHandler{out: out, err: err, fmtr: fmtr}
}

type ioHandler struct {
	out, err io.Writer
	fmtr     Formatter
}

func (o *ioHandler) Log(e *Entry) error {
	m := o.fmtr.Format(e)
	w := o.out
	if e.Lvl <= WARN {
		w = o.err
	}
	_, err := w.Write(m)
	return err
}

// ZapHandler forwards entries to a zap core. Context pairs become zap fields.
func ZapHandler(z *zap.Logger) Handler {
	return &zapHandler{core: z.Core()}
}

// ZapJSONHandler returns a handler that writes one JSON object per entry to w.
func ZapJSONHandler(w io.Writer) Handler {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return &zapHandler{core: core}
}

type zapHandler struct {
	core zapcore.Core
}

func (h *zapHandler) Log(e *Entry) error {
	lvl := zapLevel(e.Lvl)
	if !h.core.Enabled(lvl) {
		return nil
	}
	fields := make([]zap.Field, 0, len(e.Ctx)/2+1)
	for i := 0; i+1 < len(e.Ctx); i += 2 {
		k, ok := e.Ctx[i].(string)
		if !ok {
			k = fmt.Sprintf("_key%d", i/2)
		}
		fields = append(fields, zap.Any(k, e.Ctx[i+1]))
	}
	if e.Src != "" {
		fields = append(fields, zap.String("src", e.Src))
	}
	return h.core.Write(zapcore.Entry{
		Level:   lvl,
		Time:    e.Time,
		Message: e.Msg,
	}, fields)
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case CRIT:
		return zapcore.DPanicLevel
	case ERR:
		return zapcore.ErrorLevel
	case WARN:
		return zapcore.WarnLevel
	case INFO:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}
