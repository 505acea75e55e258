package report

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/chenBenjamin97/football-tracker/pkg/analysis"
)

//lineColor keeps white jerseys visible on the white chart background
func lineColor(rgb [3]uint8) color.RGBA {
	if int(rgb[0])+int(rgb[1])+int(rgb[2]) > 3*230 {
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

//PossessionSeries returns each team's possession percentage over time, X in seconds
func PossessionSeries(res *analysis.Result) (home, away plotter.XYs) {
	fps := res.Metadata.FPS
	if fps <= 0 {
		fps = 1
	}
	home = make(plotter.XYs, 0, len(res.Frames))
	away = make(plotter.XYs, 0, len(res.Frames))
	for _, f := range res.Frames {
		x := float64(f.FrameIndex) / fps
		home = append(home, plotter.XY{X: x, Y: float64(f.Possession.HomePct)})
		away = append(away, plotter.XY{X: x, Y: float64(f.Possession.AwayPct)})
	}
	return home, away
}

//PossessionChart draws how possession evolved during the run into a png (or svg/pdf, by extension)
func PossessionChart(res *analysis.Result, path string) error {
	if len(res.Frames) == 0 {
		return errors.New("PossessionChart: result has no frames")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Possession - %s vs %s", res.Metadata.Home.Name, res.Metadata.Away.Name)
	p.X.Label.Text = "seconds"
	p.Y.Label.Text = "possession %"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(plotter.NewGrid())

	homePts, awayPts := PossessionSeries(res)
	for _, s := range []struct {
		team analysis.TeamInfo
		pts  plotter.XYs
	}{
		{res.Metadata.Home, homePts},
		{res.Metadata.Away, awayPts},
	} {
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return errors.Wrapf(err, "PossessionChart: could not create %s line", s.team.Name)
		}
		line.Color = lineColor(s.team.Color)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.team.Abbr, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(12*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "PossessionChart: could not save '%s'", path)
	}
	return nil
}
