package video

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/chenBenjamin97/football-tracker/pkg/analysis"
	"github.com/chenBenjamin97/football-tracker/pkg/match"
)

var (
	unknownTeamColor = color.RGBA{160, 160, 160, 0}
	ballColor        = color.RGBA{255, 255, 0, 0}
	holderColor      = color.RGBA{255, 0, 255, 0}
	boardBackground  = color.RGBA{255, 255, 255, 0}
	black            = color.RGBA{0, 0, 0, 0}
)

//Annotate draws the state of the last stepped frame of the session on frame
func Annotate(frame *gocv.Mat, s *analysis.Session) {
	m := s.Match()
	for _, p := range s.Players() {
		holding := m.ClosestPlayer != nil && m.ClosestPlayer.ID == p.ID
		plotPlayer(frame, p, holding)
	}
	if b := s.Ball(); b != nil {
		plotBall(frame, b)
	}
	plotBoard(frame, m)
}

//plotPlayer plots player's bounding box in its team color and writes its ID above it
func plotPlayer(frame *gocv.Mat, p *match.Player, holding bool) {
	plotColor, textColor := unknownTeamColor, black
	if p.Team != nil {
		plotColor, textColor = p.Team.Color, p.Team.TextColor
	}

	boundingBoxRect := image.Rect(int(p.BBox.X1), int(p.BBox.Y1), int(p.BBox.X2), int(p.BBox.Y2))
	gocv.Rectangle(frame, boundingBoxRect, plotColor, 2)

	text := fmt.Sprintf("ID: %d", p.ID)
	size := gocv.GetTextSize(text, gocv.FontHersheyPlain, 1, 1)
	startPoint := image.Pt(boundingBoxRect.Min.X, boundingBoxRect.Min.Y-5)
	textBackgroundRect := image.Rect(startPoint.X-2, startPoint.Y-size.Y-4, startPoint.X+size.X+2, startPoint.Y+3)

	gocv.Rectangle(frame, textBackgroundRect, plotColor, -1) //thickness -1 == filled rectangle
	gocv.PutText(frame, text, startPoint, gocv.FontHersheyPlain, 1, textColor, 1)

	if holding {
		head := image.Pt((boundingBoxRect.Min.X+boundingBoxRect.Max.X)/2, textBackgroundRect.Min.Y-10)
		gocv.Circle(frame, head, 6, holderColor, -1)
	}
}

func plotBall(frame *gocv.Mat, b *match.Ball) {
	center := image.Pt(int(b.Position().X), int(b.Position().Y))
	radius := max(int(b.BBox.Width()/2)+3, 6)
	gocv.Circle(frame, center, radius, ballColor, 2)
	gocv.Circle(frame, center, 2, ballColor, -1)
}

//plotBoard draws the possession board on the top left corner: both abbreviations with their percentage, a
//possession bar and the pass counters
func plotBoard(frame *gocv.Mat, m *match.Match) {
	const x, y, w, h = 20, 20, 320, 90

	gocv.Rectangle(frame, image.Rect(x, y, x+w, y+h), boardBackground, -1)

	homePct := m.PossessionPercentage(m.Home) * 100
	awayPct := m.PossessionPercentage(m.Away) * 100

	half := (w - 30) / 2
	homeBox := image.Rect(x+10, y+10, x+10+half, y+40)
	awayBox := image.Rect(x+20+half, y+10, x+20+2*half, y+40)
	gocv.Rectangle(frame, homeBox, m.Home.BoardColor, -1)
	gocv.Rectangle(frame, awayBox, m.Away.BoardColor, -1)
	gocv.PutText(frame, fmt.Sprintf("%s %.0f%%", m.Home.Abbreviation, homePct), image.Pt(homeBox.Min.X+8, homeBox.Max.Y-9), gocv.FontHersheySimplex, 0.6, m.Home.TextColor, 2)
	gocv.PutText(frame, fmt.Sprintf("%s %.0f%%", m.Away.Abbreviation, awayPct), image.Pt(awayBox.Min.X+8, awayBox.Max.Y-9), gocv.FontHersheySimplex, 0.6, m.Away.TextColor, 2)

	//bar split by the share of frames with possession
	bar := image.Rect(x+10, y+48, x+w-10, y+58)
	split := bar.Min.X + int(float64(bar.Dx())*m.PossessionShare(m.Home))
	if m.Home.PossessionFrames+m.Away.PossessionFrames == 0 {
		split = bar.Min.X + bar.Dx()/2
	}
	gocv.Rectangle(frame, image.Rect(bar.Min.X, bar.Min.Y, split, bar.Max.Y), m.Home.BoardColor, -1)
	gocv.Rectangle(frame, image.Rect(split, bar.Min.Y, bar.Max.X, bar.Max.Y), m.Away.BoardColor, -1)
	gocv.Rectangle(frame, bar, black, 1)

	passes := fmt.Sprintf("Passes %s %d - %d %s", m.Home.Abbreviation, m.PassesOf(m.Home), m.PassesOf(m.Away), m.Away.Abbreviation)
	gocv.PutText(frame, passes, image.Pt(x+10, y+80), gocv.FontHersheyPlain, 1.1, black, 1)
}
