package output_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cachebridge/internal/ui/output"
	"go.trai.ch/cachebridge/internal/ui/style"
)

func TestColorProfile(t *testing.T) {
	t.Run("NO_COLOR forces Ascii", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		t.Setenv("CLICOLOR_FORCE", "1")
		assert.Equal(t, termenv.Ascii, output.ColorProfile(&bytes.Buffer{}))
	})

	t.Run("buffers are not terminals", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("CLICOLOR_FORCE", "")
		assert.Equal(t, termenv.Ascii, output.ColorProfile(&bytes.Buffer{}))
	})

	t.Run("regular files are not terminals", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("CLICOLOR_FORCE", "")
		f, err := os.CreateTemp(t.TempDir(), "out")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, termenv.Ascii, output.ColorProfile(f))
	})

	t.Run("CLICOLOR_FORCE enables ANSI", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("CLICOLOR_FORCE", "1")
		assert.Equal(t, termenv.ANSI, output.ColorProfile(&bytes.Buffer{}))
	})
}

func TestNew(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	out := output.New(buf)
	_, err := out.WriteString(out.String("plain").Foreground(termenv.ANSIRed).String())
	require.NoError(t, err)
	assert.Equal(t, "plain", buf.String())
}

func TestRenderer(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	r := output.Renderer(&bytes.Buffer{})
	assert.Equal(t, termenv.Ascii, r.ColorProfile())
	assert.Equal(t, "label", style.Key(r).Render("label"))
	assert.Equal(t, style.Check, style.Status(r, true).Render(style.Check))
}
