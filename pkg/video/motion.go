package video

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
	"github.com/chenBenjamin97/football-tracker/pkg/tracking"
)

//TransformEstimator estimates the camera motion since the previous frame
type TransformEstimator interface {
	Estimate(frame gocv.Mat, dets []detection.Detection) tracking.CoordinateTransform
	Close() error
}

//MotionEstimator tracks corners of the static background (grass lines, stands, boards) with sparse optical flow.
//Corners inside detection boxes are ignored so that running players do not look like a moving camera.
type MotionEstimator struct {
	MaxCorners         int
	QualityLevel       float64
	MinDistance        float64
	MinCorrespondences int

	prevGray gocv.Mat
	prevDets []detection.Detection
}

func NewMotionEstimator() *MotionEstimator {
	return &MotionEstimator{
		MaxCorners:         300,
		QualityLevel:       0.01,
		MinDistance:        15,
		MinCorrespondences: 10,
		prevGray:           gocv.NewMat(),
	}
}

func insideAny(p detection.Point, dets []detection.Detection) bool {
	for _, d := range dets {
		if d.BBox.Contains(p) {
			return true
		}
	}
	return false
}

//Estimate returns the previous -> current frame transform. The first frame, or a frame without enough
//background correspondences, gets the identity.
func (m *MotionEstimator) Estimate(frame gocv.Mat, dets []detection.Detection) tracking.CoordinateTransform {
	gray := gocv.NewMat()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	prevDets := m.prevDets
	defer func() {
		m.prevGray.Close()
		m.prevGray = gray
		m.prevDets = dets
	}()

	if m.prevGray.Empty() || m.prevGray.Rows() != gray.Rows() || m.prevGray.Cols() != gray.Cols() {
		return tracking.Identity{}
	}

	prevPts := gocv.NewMat()
	defer prevPts.Close()
	gocv.GoodFeaturesToTrack(m.prevGray, &prevPts, m.MaxCorners, m.QualityLevel, m.MinDistance)
	if prevPts.Empty() || prevPts.Rows() < m.MinCorrespondences {
		return tracking.Identity{}
	}

	nextPts := gocv.NewMat()
	defer nextPts.Close()
	status := gocv.NewMat()
	defer status.Close()
	flowErr := gocv.NewMat()
	defer flowErr.Close()
	gocv.CalcOpticalFlowPyrLK(m.prevGray, gray, prevPts, nextPts, &status, &flowErr)

	bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())
	prev := make([]detection.Point, 0, prevPts.Rows())
	next := make([]detection.Point, 0, prevPts.Rows())
	for i := 0; i < status.Rows(); i++ {
		if status.GetUCharAt(i, 0) != 1 {
			continue
		}
		pv, nv := prevPts.GetVecfAt(i, 0), nextPts.GetVecfAt(i, 0)
		p := detection.Point{X: float64(pv[0]), Y: float64(pv[1])}
		n := detection.Point{X: float64(nv[0]), Y: float64(nv[1])}

		if !image.Pt(int(n.X), int(n.Y)).In(bounds) {
			continue
		}
		if insideAny(p, prevDets) || insideAny(n, dets) {
			continue
		}
		prev = append(prev, p)
		next = append(next, n)
	}

	transform, _ := tracking.EstimateTranslation(prev, next, m.MinCorrespondences)
	return transform
}

func (m *MotionEstimator) Close() error {
	return m.prevGray.Close()
}

//staticCamera is the estimator used when motion compensation is off
type staticCamera struct{}

func (staticCamera) Estimate(gocv.Mat, []detection.Detection) tracking.CoordinateTransform {
	return tracking.Identity{}
}

func (staticCamera) Close() error { return nil }
