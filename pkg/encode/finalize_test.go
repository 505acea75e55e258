package encode

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRaw(t *testing.T, dir string) string {
	raw := filepath.Join(dir, "annotated.tmp.mp4")
	require.NoError(t, os.WriteFile(raw, []byte("raw frames"), 0644))
	return raw
}

//fakeFFmpeg writes a script copying its input to its last argument, prefixed to tell it apart
func fakeFFmpeg(t *testing.T, dir string) string {
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	script := filepath.Join(dir, "ffmpeg")
	body := "#!/bin/sh\nfor a; do last=$a; done\n{ printf 'h264:'; cat \"$2\"; } > \"$last\"\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))
	return script
}

func TestFinalizeTranscodes(t *testing.T) {
	dir := t.TempDir()
	raw := writeRaw(t, dir)
	out := filepath.Join(dir, "annotated.mp4")

	ok, err := Finalize(context.Background(), raw, out, Options{FFmpeg: fakeFFmpeg(t, dir)})
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "h264:raw frames", string(data))
	assert.NoFileExists(t, raw)
}

func TestFinalizeFallsBackToRaw(t *testing.T) {
	dir := t.TempDir()
	raw := writeRaw(t, dir)
	out := filepath.Join(dir, "annotated.mp4")

	ok, err := Finalize(context.Background(), raw, out, Options{FFmpeg: filepath.Join(dir, "no-such-ffmpeg")})
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "raw frames", string(data))
	assert.NoFileExists(t, raw)
}

func TestFinalizeFallsBackWhenNothingWritten(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	dir := t.TempDir()
	raw := writeRaw(t, dir)
	out := filepath.Join(dir, "annotated.mp4")

	silent := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(silent, []byte("#!/bin/sh\nexit 0\n"), 0755))

	ok, err := Finalize(context.Background(), raw, out, Options{FFmpeg: silent})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.FileExists(t, out)
	assert.NoFileExists(t, raw)
}

func TestFinalizeMissingRaw(t *testing.T) {
	dir := t.TempDir()
	_, err := Finalize(context.Background(), filepath.Join(dir, "missing.mp4"), filepath.Join(dir, "out.mp4"), DefaultOptions())
	assert.Error(t, err)
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []string{"-i", "a.tmp.mp4", "-c:v", "libx264", "-pix_fmt", "yuv420p", "-movflags", "+faststart", "-y", "a.mp4"}, Args("a.tmp.mp4", "a.mp4"))
}
