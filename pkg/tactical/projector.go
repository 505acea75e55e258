package tactical

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

var ErrNotCalibrated = errors.New("tactical: projector is not calibrated")

//State is the calibration lifecycle of a Projector
type State int

const (
	Uncalibrated State = iota //no homography yet
	Calibrating               //has a homography, not enough consistent observations
	Ready                     //projections are served
)

func (s State) String() string {
	switch s {
	case Uncalibrated:
		return "uncalibrated"
	case Calibrating:
		return "calibrating"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Config struct {
	MinConfidence        float64 //keypoints below it are ignored
	MinKeypoints         int     //usable keypoints needed to attempt a fit
	MaxReprojectionError float64 //meters, worse fits are rejected
	ConsistencyTolerance float64 //meters, mean disagreement with the previous fit which restarts the observation count
	MinObservations      int     //consistent fits needed before Ready
}

func DefaultConfig() Config {
	return Config{
		MinConfidence:        0.5,
		MinKeypoints:         4,
		MaxReprojectionError: 1.5,
		ConsistencyTolerance: 2,
		MinObservations:      5,
	}
}

//Projector maps pixel positions onto the pitch through a homography fitted from detected pitch keypoints
type Projector struct {
	cfg          Config
	fitter       Fitter
	pitch        Pitch
	homography   *Homography
	state        State
	observations int
}

//NewProjector uses DLTFitter when fitter is nil
func NewProjector(cfg Config, fitter Fitter) *Projector {
	if fitter == nil {
		fitter = DLTFitter{}
	}
	return &Projector{cfg: cfg, fitter: fitter, pitch: DefaultPitch()}
}

func (p *Projector) State() State            { return p.state }
func (p *Projector) Observations() int       { return p.observations }
func (p *Projector) Pitch() Pitch            { return p.pitch }
func (p *Projector) Homography() *Homography { return p.homography }

//correspondences pairs confident labeled keypoints with their pitch coordinates, one per label
func (p *Projector) correspondences(kps []detection.Detection) (src, dst []detection.Point) {
	seen := make(map[int]float64)
	index := make(map[int]int)
	for _, kp := range kps {
		if kp.Class != detection.Keypoint || kp.Confidence < p.cfg.MinConfidence {
			continue
		}
		target, ok := p.pitch.Keypoint(kp.Label)
		if !ok {
			continue
		}
		if conf, dup := seen[kp.Label]; dup {
			//keep the most confident detection of a label
			if kp.Confidence > conf {
				src[index[kp.Label]] = kp.BBox.Center()
				seen[kp.Label] = kp.Confidence
			}
			continue
		}
		seen[kp.Label] = kp.Confidence
		index[kp.Label] = len(src)
		src = append(src, kp.BBox.Center())
		dst = append(dst, target)
	}
	return src, dst
}

//UpdateFromKeypoints tries to fit a new homography from one frame's keypoints.
//A rejected attempt leaves the previous homography and state untouched and reports why.
func (p *Projector) UpdateFromKeypoints(kps []detection.Detection) error {
	src, dst := p.correspondences(kps)
	if len(src) < p.cfg.MinKeypoints {
		return errors.Wrapf(ErrTooFewPoints, "UpdateFromKeypoints: %d usable keypoints, need %d", len(src), p.cfg.MinKeypoints)
	}

	h, err := p.fitter.FitHomography(src, dst)
	if err != nil {
		return errors.Wrap(err, "UpdateFromKeypoints")
	}

	rms, err := ReprojectionError(h, src, dst)
	if err != nil {
		return errors.Wrap(err, "UpdateFromKeypoints")
	}
	if rms > p.cfg.MaxReprojectionError {
		return errors.Wrapf(ErrDegenerate, "UpdateFromKeypoints: reprojection error %.2fm above %.2fm", rms, p.cfg.MaxReprojectionError)
	}

	consistent := p.homography == nil || p.agrees(h, src)
	p.homography = h

	if p.state == Ready {
		return nil
	}
	if consistent {
		p.observations++
	} else {
		p.observations = 1
	}
	p.state = Calibrating
	if p.observations >= p.cfg.MinObservations {
		p.state = Ready
	}
	return nil
}

//agrees reports whether h and the current homography put the points at about the same place on the pitch
func (p *Projector) agrees(h *Homography, pts []detection.Point) bool {
	var sum float64
	for _, pt := range pts {
		a, err := p.homography.Apply(pt)
		if err != nil {
			return false
		}
		b, err := h.Apply(pt)
		if err != nil {
			return false
		}
		sum += a.Distance(b)
	}
	mean := sum / float64(len(pts))
	return !math.IsNaN(mean) && mean <= p.cfg.ConsistencyTolerance
}

//Project maps a pixel position to pitch meters. It refuses until the projector is Ready.
func (p *Projector) Project(pt detection.Point) (detection.Point, error) {
	if p.state != Ready {
		return detection.Point{}, ErrNotCalibrated
	}
	return p.homography.Apply(pt)
}
