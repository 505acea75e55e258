package encode

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	FFmpeg string //binary, looked up in PATH when not absolute
}

func DefaultOptions() Options {
	return Options{FFmpeg: "ffmpeg"}
}

//Args returns the ffmpeg arguments turning raw into a web playable H.264 mp4 at out
func Args(raw, out string) []string {
	return []string{"-i", raw, "-c:v", "libx264", "-pix_fmt", "yuv420p", "-movflags", "+faststart", "-y", out}
}

//Finalize transcodes raw into out. When transcoding fails the raw file itself becomes out, so a run
//always ends up with a video. raw never survives a call. It returns whether the transcoding succeeded;
//an error means not even the fallback could produce out.
func Finalize(ctx context.Context, raw, out string, opts Options) (bool, error) {
	if _, err := os.Stat(raw); err != nil {
		return false, errors.Wrapf(err, "Finalize: raw video '%s' is missing", raw)
	}

	if opts.FFmpeg == "" {
		opts.FFmpeg = DefaultOptions().FFmpeg
	}

	cmd := exec.CommandContext(ctx, opts.FFmpeg, Args(raw, out)...)
	output, err := cmd.CombinedOutput()
	if err == nil {
		if info, statErr := os.Stat(out); statErr != nil || info.Size() == 0 {
			err = errors.Errorf("ffmpeg exited without writing '%s'", out)
		}
	}

	if err == nil {
		if rmErr := os.Remove(raw); rmErr != nil {
			log.Warn().Err(rmErr).Str("raw", raw).Msg("Finalize: could not remove raw video")
		}
		return true, nil
	}

	log.Error().Err(err).Str("ffmpeg", opts.FFmpeg).Bytes("output", tail(output, 512)).Msg("Finalize: transcoding failed, keeping raw video")

	if renameErr := os.Rename(raw, out); renameErr != nil {
		os.Remove(raw)
		return false, errors.Wrapf(renameErr, "Finalize: could not move '%s' to '%s'", raw, out)
	}
	return false, nil
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
