package analysis

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
	"github.com/chenBenjamin97/football-tracker/pkg/match"
)

type TeamInfo struct {
	Name  string   `json:"name"`
	Abbr  string   `json:"abbr"`
	Color [3]uint8 `json:"color"`
}

func teamInfo(t *match.Team) TeamInfo {
	return TeamInfo{Name: t.Name, Abbr: t.Abbreviation, Color: t.RGB()}
}

type Metadata struct {
	ID             string   `json:"id"`
	FPS            float64  `json:"fps"`
	MatchKey       string   `json:"match_key"`
	PixelsToMeters float64  `json:"pixels_to_meters"`
	Home           TeamInfo `json:"home"`
	Away           TeamInfo `json:"away"`
	Width          int      `json:"width,omitempty"`
	Height         int      `json:"height,omitempty"`
}

type PlayerRecord struct {
	ID       int        `json:"id"`
	Team     string     `json:"team"`
	Position [2]float64 `json:"position"`
}

type BallRecord struct {
	Position [2]float64 `json:"position"`
}

//FrameResult is what one frame produced. It is never changed once appended to a Result.
type FrameResult struct {
	FrameIndex        int                `json:"frame_index"`
	Players           []PlayerRecord     `json:"players"`
	Ball              *BallRecord        `json:"ball"`
	Possession        match.Possession   `json:"possession"`
	TacticalPositions map[int][2]float64 `json:"tactical_positions"`
}

//Summary is the state of the match after the last frame
type Summary struct {
	Frames       int     `json:"frames"`
	HomePct      float64 `json:"home_pct"`
	AwayPct      float64 `json:"away_pct"`
	HomeShare    float64 `json:"home_share"`
	AwayShare    float64 `json:"away_share"`
	HomeDistance float64 `json:"home_distance"`
	AwayDistance float64 `json:"away_distance"`
	HomePasses   int     `json:"home_passes"`
	AwayPasses   int     `json:"away_passes"`
	Calibration  string  `json:"calibration"`
	PlayersSeen  int     `json:"players_seen"`
}

type Result struct {
	Metadata  Metadata      `json:"metadata"`
	Frames    []FrameResult `json:"frames"`
	Passes    []match.Pass  `json:"passes"`
	Summary   Summary       `json:"summary"`
	VideoPath string        `json:"video_path,omitempty"`
	VideoURL  string        `json:"video_url,omitempty"`
	ChartPath string        `json:"chart_path,omitempty"`
}

//Save writes the result as json
func (r *Result) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Save: could not create '%s'", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrapf(err, "Save: could not encode result into '%s'", path)
	}
	return nil
}

//Load reads a result written by Save
func Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Load: could not read '%s'", path)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrapf(err, "Load: '%s' is not a result", path)
	}
	return &r, nil
}

func pair(p detection.Point) [2]float64 {
	return [2]float64{p.X, p.Y}
}
