package detection

import (
	"bufio"
	"io"
	"os/exec"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

//Kind selects which model the detector script runs on a frame
type Kind string

const (
	KindPlayers   Kind = "players"
	KindBall      Kind = "ball"
	KindKeypoints Kind = "keypoints"
)

//maxLineSize bounds a single response line, a frame full of keypoints stays far below it
const maxLineSize = 10 << 20

//Script talks to a long running detector process over its standard input/output.
//Each request is one JSON line: {"frame":12,"kind":"players","path":"/tmp/frame.jpg"}
//and the process answers with exactly one JSON line:
//{"frame":12,"detections":[{"class":"player","confidence":0.91,"bbox":[x1,y1,x2,y2]}]}
//Keypoints may carry "label" (pitch keypoint index) and "xy" instead of "bbox".
type Script struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
}

//StartScript runs "python <script> --serve <args...>" and returns a client for it
func StartScript(python, script string, args ...string) (*Script, error) {
	cmd := exec.Command(python, append([]string{script, "--serve"}, args...)...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "StartScript: could not get detector's standard input")
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "StartScript: could not get detector's standard output")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "StartScript: could not start '%s'", script)
	}

	s := NewScript(stdin, stdout)
	s.cmd = cmd
	return s, nil
}

//NewScript wraps an already connected request writer and response reader
func NewScript(w io.WriteCloser, r io.Reader) *Script {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Script{stdin: w, scanner: scanner}
}

//Detect asks the process for detections of given kind on the image stored at imagePath
func (s *Script) Detect(frame int, kind Kind, imagePath string) ([]Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := sjson.SetBytes([]byte(`{}`), "frame", frame)
	if err == nil {
		req, err = sjson.SetBytes(req, "kind", string(kind))
	}
	if err == nil {
		req, err = sjson.SetBytes(req, "path", imagePath)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Detect: could not build request")
	}

	if _, err := s.stdin.Write(append(req, '\n')); err != nil {
		return nil, errors.Wrapf(err, "Detect: could not send frame %d", frame)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "Detect: could not read answer for frame %d", frame)
		}
		return nil, errors.Errorf("Detect: detector closed its output before answering frame %d", frame)
	}

	return ParseResponse(s.scanner.Bytes(), frame)
}

//Close stops the detector process
func (s *Script) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.stdin.Close()
	if s.cmd != nil {
		if werr := s.cmd.Wait(); werr != nil && err == nil {
			err = errors.Wrap(werr, "Close: detector exited with error")
		}
	}
	return err
}

//ParseResponse decodes one answer line and makes sure it belongs to wanted frame
func ParseResponse(line []byte, frame int) ([]Detection, error) {
	if !gjson.ValidBytes(line) {
		return nil, errors.Errorf("ParseResponse: invalid json for frame %d", frame)
	}

	res := gjson.ParseBytes(line)
	if msg := res.Get("error"); msg.Exists() {
		return nil, errors.Errorf("ParseResponse: detector failed on frame %d: %s", frame, msg.String())
	}

	if got := res.Get("frame"); !got.Exists() || int(got.Int()) != frame {
		return nil, errors.Errorf("ParseResponse: expected answer for frame %d, got '%s'", frame, got.Raw)
	}

	dets := make([]Detection, 0)
	var parseErr error
	res.Get("detections").ForEach(func(_, v gjson.Result) bool {
		d, err := parseDetection(v)
		if err != nil {
			parseErr = errors.Wrapf(err, "ParseResponse: frame %d", frame)
			return false
		}
		dets = append(dets, d)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return dets, nil
}

func parseDetection(v gjson.Result) (Detection, error) {
	cls, err := ParseClass(v.Get("class").String())
	if err != nil {
		return Detection{}, err
	}

	d := Detection{Class: cls, Confidence: v.Get("confidence").Float(), Label: NoLabel}
	if l := v.Get("label"); l.Exists() {
		d.Label = int(l.Int())
	}

	if box := v.Get("bbox").Array(); len(box) == 4 {
		d.BBox = BBox{X1: box[0].Float(), Y1: box[1].Float(), X2: box[2].Float(), Y2: box[3].Float()}
		if d.BBox.X2 < d.BBox.X1 || d.BBox.Y2 < d.BBox.Y1 {
			return Detection{}, errors.Errorf("inverted bbox %s", v.Get("bbox").Raw)
		}
		return d, nil
	}

	//keypoints can be reported as a single point
	if xy := v.Get("xy").Array(); len(xy) == 2 {
		d.BBox = BBox{X1: xy[0].Float(), Y1: xy[1].Float(), X2: xy[0].Float(), Y2: xy[1].Float()}
		return d, nil
	}

	return Detection{}, errors.Errorf("detection without bbox: %s", v.Raw)
}
