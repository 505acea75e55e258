package video

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gocv.io/x/gocv"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

//Detector finds players, balls and pitch keypoints on a frame
type Detector interface {
	Detect(index int, frame gocv.Mat) (Detections, error)
	Close() error
}

//ScriptDetector runs the python detection models through a long lived script. Every frame is handed over as a
//temporary JPEG file, the script answers with one json line per model.
type ScriptDetector struct {
	script *detection.Script
	dir    string
}

//NewScriptDetector starts the detector script configured under 'detector' in the configuration file
func NewScriptDetector() (*ScriptDetector, error) {
	script, err := detection.StartScript(viper.GetString("detector.python"), viper.GetString("detector.script"))
	if err != nil {
		return nil, errors.Wrap(err, "NewScriptDetector")
	}
	return NewScriptDetectorWith(script, viper.GetString("directory.temp")), nil
}

//NewScriptDetectorWith uses an already running script and writes frames into dir
func NewScriptDetectorWith(script *detection.Script, dir string) *ScriptDetector {
	return &ScriptDetector{script: script, dir: dir}
}

func (d *ScriptDetector) Detect(index int, frame gocv.Mat) (Detections, error) {
	framePath := filepath.Join(d.dir, fmt.Sprintf("frame_%d_%06d.jpg", os.Getpid(), index))
	if ok := gocv.IMWrite(framePath, frame); !ok {
		return Detections{}, errors.Errorf("Detect: could not write frame %d to '%s'", index, framePath)
	}
	defer os.Remove(framePath)

	var res Detections
	var err error
	if res.Players, err = d.script.Detect(index, detection.KindPlayers, framePath); err != nil {
		return Detections{}, errors.Wrap(err, "Detect: players")
	}
	if res.Balls, err = d.script.Detect(index, detection.KindBall, framePath); err != nil {
		return Detections{}, errors.Wrap(err, "Detect: ball")
	}
	if res.Keypoints, err = d.script.Detect(index, detection.KindKeypoints, framePath); err != nil {
		return Detections{}, errors.Wrap(err, "Detect: keypoints")
	}
	return res, nil
}

func (d *ScriptDetector) Close() error {
	return d.script.Close()
}
