package tactical

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

var (
	ErrTooFewPoints = errors.New("tactical: not enough point correspondences")
	ErrDegenerate   = errors.New("tactical: degenerate point configuration")
)

//singularEpsilon is the relative singular value below which the system has no unique solution
const singularEpsilon = 1e-10

//Homography is a 3x3 projective transform between two planes
type Homography struct {
	m *mat.Dense
}

//NewHomography builds a homography from its row-major values
func NewHomography(values [9]float64) *Homography {
	return &Homography{m: mat.NewDense(3, 3, values[:])}
}

func (h *Homography) At(i, j int) float64 { return h.m.At(i, j) }

//Values returns the row-major matrix
func (h *Homography) Values() [9]float64 {
	var v [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v[i*3+j] = h.m.At(i, j)
		}
	}
	return v
}

//Apply maps p through the transform. Points on the horizon line cannot be mapped.
func (h *Homography) Apply(p detection.Point) (detection.Point, error) {
	x := h.m.At(0, 0)*p.X + h.m.At(0, 1)*p.Y + h.m.At(0, 2)
	y := h.m.At(1, 0)*p.X + h.m.At(1, 1)*p.Y + h.m.At(1, 2)
	w := h.m.At(2, 0)*p.X + h.m.At(2, 1)*p.Y + h.m.At(2, 2)
	if math.Abs(w) < 1e-12 {
		return detection.Point{}, errors.Wrapf(ErrDegenerate, "Apply: point (%.2f, %.2f) maps to infinity", p.X, p.Y)
	}
	return detection.Point{X: x / w, Y: y / w}, nil
}

//Inverse returns the transform going the other way
func (h *Homography) Inverse() (*Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.m); err != nil {
		return nil, errors.Wrap(ErrDegenerate, "Inverse: homography is singular")
	}
	return &Homography{m: &inv}, nil
}

//Fitter estimates a homography mapping src[i] onto dst[i]
type Fitter interface {
	FitHomography(src, dst []detection.Point) (*Homography, error)
}

//DLTFitter solves the normalized direct linear transform with an SVD
type DLTFitter struct{}

func (DLTFitter) FitHomography(src, dst []detection.Point) (*Homography, error) {
	if len(src) != len(dst) {
		return nil, errors.Errorf("FitHomography: got %d source points and %d destination points", len(src), len(dst))
	}
	n := len(src)
	if n < 4 {
		return nil, errors.Wrapf(ErrTooFewPoints, "FitHomography: got %d points", n)
	}

	srcNorm, ts, ok := normalize(src)
	if !ok {
		return nil, errors.Wrap(ErrDegenerate, "FitHomography: source points coincide")
	}
	dstNorm, td, ok := normalize(dst)
	if !ok {
		return nil, errors.Wrap(ErrDegenerate, "FitHomography: destination points coincide")
	}

	//at least 9 rows so the full V always holds the null vector in its last column
	rows := max(2*n, 9)
	a := mat.NewDense(rows, 9, nil)
	for i := 0; i < n; i++ {
		x, y := srcNorm[i].X, srcNorm[i].Y
		u, v := dstNorm[i].X, dstNorm[i].Y
		a.SetRow(2*i, []float64{-x, -y, -1, 0, 0, 0, u * x, u * y, u})
		a.SetRow(2*i+1, []float64{0, 0, 0, -x, -y, -1, v * x, v * y, v})
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFullV) {
		return nil, errors.Wrap(ErrDegenerate, "FitHomography: svd did not converge")
	}
	values := svd.Values(nil)
	if values[0] == 0 || values[7]/values[0] < singularEpsilon {
		return nil, errors.Wrap(ErrDegenerate, "FitHomography: points do not define a unique plane mapping")
	}

	var v mat.Dense
	svd.VTo(&v)
	hn := mat.NewDense(3, 3, mat.Col(nil, 8, &v))

	//denormalize: H = Td^-1 * Hn * Ts
	var tdInv mat.Dense
	if err := tdInv.Inverse(td); err != nil {
		return nil, errors.Wrap(ErrDegenerate, "FitHomography: destination normalization is singular")
	}
	var h mat.Dense
	h.Product(&tdInv, hn, ts)

	scale := h.At(2, 2)
	if math.Abs(scale) < 1e-12 {
		return nil, errors.Wrap(ErrDegenerate, "FitHomography: homography maps the origin to infinity")
	}
	h.Scale(1/scale, &h)

	return &Homography{m: &h}, nil
}

//normalize moves points to their centroid and scales them so the mean distance to it is sqrt(2)
func normalize(pts []detection.Point) ([]detection.Point, *mat.Dense, bool) {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	var mean float64
	for _, p := range pts {
		mean += math.Hypot(p.X-cx, p.Y-cy)
	}
	mean /= float64(len(pts))
	if mean < 1e-12 {
		return nil, nil, false
	}

	s := math.Sqrt2 / mean
	res := make([]detection.Point, len(pts))
	for i, p := range pts {
		res[i] = detection.Point{X: (p.X - cx) * s, Y: (p.Y - cy) * s}
	}
	t := mat.NewDense(3, 3, []float64{
		s, 0, -s * cx,
		0, s, -s * cy,
		0, 0, 1,
	})
	return res, t, true
}

//ReprojectionError is the root mean square distance between h(src[i]) and dst[i]
func ReprojectionError(h *Homography, src, dst []detection.Point) (float64, error) {
	if len(src) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range src {
		p, err := h.Apply(src[i])
		if err != nil {
			return 0, err
		}
		d := p.Distance(dst[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(src))), nil
}
