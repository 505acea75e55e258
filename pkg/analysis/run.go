package analysis

import "fmt"

//Request describes one video to analyze
type Request struct {
	ID             string //run id, generated when empty
	VideoPath      string
	MatchKey       string  //selects teams, colors and initial possession
	PixelsToMeters float64 //0 means auto calibration
}

//FrameError stops a run when the detector fails on a frame
type FrameError struct {
	Index    int //frame the detector failed on
	LastGood int //last frame fully processed, -1 if none
	Err      error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: detector failed (last good frame %d): %v", e.Index, e.LastGood, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
