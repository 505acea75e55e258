package video

import (
	"github.com/spf13/viper"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
	"github.com/chenBenjamin97/football-tracker/pkg/encode"
	"github.com/chenBenjamin97/football-tracker/pkg/utils"
)

//Options tune the run loop. OptionsFromConfig reads them from the configuration file.
type Options struct {
	OutputDir          string
	TempDir            string
	Codec              string //fourcc of the raw video
	MaxFrames          int
	Prefetch           int //frames decoded and detected ahead of the tracking stage
	Chart              bool
	CalibrationFrames  int
	CalibrationStride  int
	MotionCompensation bool
	Encode             encode.Options
}

func OptionsFromConfig() Options {
	return Options{
		OutputDir:          viper.GetString("directory.outputs"),
		TempDir:            viper.GetString("directory.temp"),
		Codec:              viper.GetString("video.codec"),
		MaxFrames:          viper.GetInt("video.max_frames"),
		Prefetch:           viper.GetInt("video.prefetch"),
		Chart:              viper.GetBool("video.chart"),
		CalibrationFrames:  viper.GetInt("calibration.frames"),
		CalibrationStride:  viper.GetInt("calibration.stride"),
		MotionCompensation: viper.GetBool("video.motion_compensation"),
		Encode:             encode.Options{FFmpeg: viper.GetString("video.ffmpeg")},
	}
}

//withDefaults fills zero values
func (o Options) withDefaults() Options {
	if o.Codec == "" {
		o.Codec = utils.RawVideoCodec
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = utils.MaxFrames
	}
	if o.Prefetch <= 0 {
		o.Prefetch = 8
	}
	if o.CalibrationStride <= 0 {
		o.CalibrationStride = 5
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	return o
}

//Detections is what the detectors found on one frame
type Detections struct {
	Players   []detection.Detection
	Balls     []detection.Detection
	Keypoints []detection.Detection
}

//Objects returns players and balls, the moving things motion estimation has to ignore
func (d Detections) Objects() []detection.Detection {
	res := make([]detection.Detection, 0, len(d.Players)+len(d.Balls))
	res = append(res, d.Players...)
	return append(res, d.Balls...)
}
