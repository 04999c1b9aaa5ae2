package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"text", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"bogus", ModeAuto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mode(tt.in), "Mode(%q)", tt.in)
	}
}

func TestEffectiveMode(t *testing.T) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)

	r := NewRendererWithTTY(out, errOut, true, ModeAuto)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r = NewRendererWithTTY(out, errOut, false, ModeAuto)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r = NewRendererWithTTY(out, errOut, true, ModeJSON)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestHeaderMarkdown(t *testing.T) {
	out := new(bytes.Buffer)
	r := NewRendererWithTTY(out, new(bytes.Buffer), false, ModeMarkdown)

	r.Header(2, "Objects")
	assert.Equal(t, "## Objects\n\n", out.String())
}

func TestHeaderJSONSilent(t *testing.T) {
	out := new(bytes.Buffer)
	r := NewRendererWithTTY(out, new(bytes.Buffer), false, ModeJSON)

	r.Header(1, "Objects")
	assert.Empty(t, out.String())
}

func TestErrorGoesToErrOut(t *testing.T) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	r := NewRendererWithTTY(out, errOut, false, ModeMarkdown)

	r.Error("broken")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "broken")
}

func TestJSON(t *testing.T) {
	out := new(bytes.Buffer)
	r := NewRendererWithTTY(out, new(bytes.Buffer), false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"count": 3}))
	assert.Contains(t, out.String(), `"count": 3`)
}

func TestFormatHeader(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	// Level is clamped to valid markdown depths.
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "###### Title", FormatHeader(9, "Title"))
}

func TestFormatKeyValue(t *testing.T) {
	got := FormatKeyValue("Objects", "9")
	assert.Equal(t, "- **Objects**: 9", got)
}

func TestTextModeNoANSIWithoutTTY(t *testing.T) {
	out := new(bytes.Buffer)
	r := NewRendererWithTTY(out, new(bytes.Buffer), false, ModeText)

	r.Println("plain")
	assert.False(t, strings.Contains(out.String(), "\x1b["), "unexpected ANSI escapes: %q", out.String())
}
