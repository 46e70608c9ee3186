package golog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	entries []*Entry
}

func (r *recorder) Log(e *Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func TestLevelFiltering(t *testing.T) {
	rec := &recorder{}
	l := New(rec, INFO)
	l.Debugf("hidden")
	l.Infof("shown %d", 1)
	l.Errorf("also shown")
	require.Len(t, rec.entries, 2)
	assert.Equal(t, "shown 1", rec.entries[0].Msg)
	assert.Empty(t, rec.entries[0].Src)
	assert.Equal(t, ERR, rec.entries[1].Lvl)
	assert.True(t, strings.HasPrefix(rec.entries[1].Src, "golog/golog_test.go:"), rec.entries[1].Src)

	assert.Equal(t, INFO, l.SetLevel(DEBUG))
	l.Debugf("now shown")
	assert.Len(t, rec.entries, 3)
}

func TestContextAccumulates(t *testing.T) {
	rec := &recorder{}
	l := New(rec, DEBUG).Context("pathway", "health_condition_acne")
	l.Context("tag", "q_x").Infof("versioning")
	l.Infof("done")
	require.Len(t, rec.entries, 2)
	assert.Equal(t, []interface{}{"pathway", "health_condition_acne", "tag", "q_x"}, rec.entries[0].Ctx)
	assert.Equal(t, []interface{}{"pathway", "health_condition_acne"}, rec.entries[1].Ctx)
}

func TestLogfmt(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	l := New(IOHandler(out, errOut, LogfmtFormatter()), DEBUG)
	l.Context("tag", "q_a b", "n", 3).Infof("hello world")
	l.Warningf("careful")
	assert.Contains(t, out.String(), `lvl=INFO msg="hello world" tag="q_a b" n=3`)
	assert.Contains(t, errOut.String(), "lvl=WARN msg=careful")
}

func TestZapJSONHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(ZapJSONHandler(buf), DEBUG)
	l.Context("tag", "q_health_condition_acne_x").Infof("versioned")
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, "versioned", m["msg"])
	assert.Equal(t, "q_health_condition_acne_x", m["tag"])
}

func TestParseLevel(t *testing.T) {
	for in, exp := range map[string]Level{"debug": DEBUG, "INFO": INFO, "warning": WARN, "err": ERR, "crit": CRIT} {
		l, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, exp, l, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestQuoteASCII(t *testing.T) {
	assert.Equal(t, "plain", quoteASCII("plain"))
	assert.Equal(t, `"two words"`, quoteASCII("two words"))
	assert.Equal(t, `"a\nb"`, quoteASCII("a\nb"))
	assert.Equal(t, "", quoteASCII(""))
}
