package video

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"github.com/chenBenjamin97/football-tracker/pkg/analysis"
	"github.com/chenBenjamin97/football-tracker/pkg/detection"
	"github.com/chenBenjamin97/football-tracker/pkg/encode"
	"github.com/chenBenjamin97/football-tracker/pkg/match"
	"github.com/chenBenjamin97/football-tracker/pkg/report"
	"github.com/chenBenjamin97/football-tracker/pkg/tactical"
	"github.com/chenBenjamin97/football-tracker/pkg/team"
	"github.com/chenBenjamin97/football-tracker/pkg/team/jersey"
	"github.com/chenBenjamin97/football-tracker/pkg/utils"
)

//prefetched is a decoded frame with its detections, waiting for the tracking stage
type prefetched struct {
	index int
	frame gocv.Mat
	dets  Detections
}

//OutputName returns the file name of the annotated video of a run
func OutputName(id string) string {
	return "annotated_" + id + ".mp4"
}

//Analyze reads the video of given request frame by frame, tracks players and ball, assigns teams, projects
//positions on the pitch and aggregates possession. Every frame is annotated into 'annotated_<id>.mp4' inside the
//output directory. Frames are decoded and detected ahead by one goroutine, everything else runs strictly in frame order.
func Analyze(ctx context.Context, req analysis.Request, detector Detector, opts Options) (*analysis.Result, error) {
	opts = opts.withDefaults()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.MatchKey == "" {
		req.MatchKey = utils.DefaultMatchKey
	}

	cap, err := gocv.VideoCaptureFile(req.VideoPath)
	if err != nil {
		return nil, errors.Wrapf(err, "Analyze: could not open '%s'", req.VideoPath)
	}
	defer cap.Close()

	fps := cap.Get(gocv.VideoCaptureFPS)
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		fps = utils.DefaultFPS
	}
	width, height := int(cap.Get(gocv.VideoCaptureFrameWidth)), int(cap.Get(gocv.VideoCaptureFrameHeight))

	ppm := req.PixelsToMeters
	if ppm <= 0 {
		ppm = autoCalibrate(req.VideoPath, detector, opts, width)
	}

	m := match.Setup(req.MatchKey, fps, ppm)
	classifier := jersey.NewClassifier(team.FiltersForMatch(req.MatchKey))
	session := analysis.NewSession(analysis.DefaultConfig(), m, tactical.NewProjector(tactical.DefaultConfig(), nil))
	meta := session.Metadata()
	meta.ID = req.ID
	meta.MatchKey = req.MatchKey
	meta.Width, meta.Height = width, height

	outputPath := filepath.Join(opts.OutputDir, OutputName(req.ID))
	rawPath := strings.TrimSuffix(outputPath, ".mp4") + utils.RawVideoSuffix

	videoWriter, err := gocv.VideoWriterFile(rawPath, opts.Codec, fps, width, height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "Analyze: could not create '%s'", rawPath)
	}

	var motion TransformEstimator = staticCamera{}
	if opts.MotionCompensation {
		motion = NewMotionEstimator()
	}
	defer motion.Close()

	log.Info().Str("id", req.ID).Str("video", req.VideoPath).Str("match", req.MatchKey).Float64("fps", fps).Float64("pixels_to_meters", ppm).Msg("Analyze: started")

	lastGood, runErr := run(ctx, cap, detector, opts, func(f *prefetched) error {
		transform := motion.Estimate(f.frame, f.dets.Objects())
		session.Step(analysis.FrameInput{
			Index:     f.index,
			Players:   f.dets.Players,
			Balls:     f.dets.Balls,
			Keypoints: f.dets.Keypoints,
			Transform: transform,
			Teams:     classifier.Bind(f.frame),
		})

		annotated := f.frame.Clone()
		defer annotated.Close()
		Annotate(&annotated, session)
		if err := videoWriter.Write(annotated); err != nil {
			return errors.Wrapf(err, "Analyze: could not write frame %d", f.index)
		}
		return nil
	})
	videoWriter.Close()

	if runErr != nil {
		os.Remove(rawPath)
		var fe *analysis.FrameError
		if errors.As(runErr, &fe) {
			fe.LastGood = lastGood
		}
		log.Error().Err(runErr).Str("id", req.ID).Int("last_good", lastGood).Msg("Analyze: stopped")
		return nil, runErr
	}

	res := session.Result()

	transcoded, err := encode.Finalize(ctx, rawPath, outputPath, opts.Encode)
	if err != nil {
		return nil, errors.Wrap(err, "Analyze")
	}
	res.VideoPath = outputPath

	if opts.Chart && len(res.Frames) > 0 {
		chartPath := filepath.Join(opts.OutputDir, "possession_"+req.ID+".png")
		if err := report.PossessionChart(res, chartPath); err != nil {
			log.Warn().Err(err).Msg("Analyze: no possession chart")
		} else {
			res.ChartPath = chartPath
		}
	}

	log.Info().Str("id", req.ID).Int("frames", len(res.Frames)).Bool("transcoded", transcoded).Str("calibration", res.Summary.Calibration).Msg("Analyze: done")
	return res, nil
}

//run feeds process with the frames of cap in order. A producer goroutine decodes and detects up to opts.Prefetch
//frames ahead. It returns the index of the last processed frame.
func run(ctx context.Context, cap *gocv.VideoCapture, detector Detector, opts Options, process func(*prefetched) error) (int, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	framesC := make(chan *prefetched, opts.Prefetch)

	g.Go(func() error {
		defer close(framesC)
		for i := 0; i < opts.MaxFrames; i++ {
			frame := gocv.NewMat()
			if ok := cap.Read(&frame); !ok || frame.Empty() { //finished to read all video's frames
				frame.Close()
				return nil
			}

			dets, err := detector.Detect(i, frame)
			if err != nil {
				frame.Close()
				return &analysis.FrameError{Index: i, LastGood: i - 1, Err: err}
			}

			select {
			case framesC <- &prefetched{index: i, frame: frame, dets: dets}:
			case <-gctx.Done():
				frame.Close()
				return gctx.Err()
			}
		}
		//only warn when something is actually left out
		rest := gocv.NewMat()
		defer rest.Close()
		if cap.Read(&rest) && !rest.Empty() {
			log.Warn().Int("max_frames", opts.MaxFrames).Msg("run: frame cap reached, ignoring the rest of the video")
		}
		return nil
	})

	lastGood := -1
	var processErr error
	for f := range framesC {
		if processErr == nil {
			processErr = process(f)
			if processErr == nil {
				lastGood = f.index
			}
		}
		f.frame.Close()

		if processErr == nil && (f.index+1)%utils.YieldEvery == 0 {
			runtime.Gosched()
			processErr = ctx.Err()
		}
		if processErr != nil {
			cancel() //stop the producer, keep draining to release its frames
		}
	}

	err := g.Wait()
	if processErr != nil {
		return lastGood, processErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return lastGood, err
	}
	return lastGood, ctx.Err()
}

//autoCalibrate estimates pixels to meters from the keypoints of the first frames of the video
func autoCalibrate(videoPath string, detector Detector, opts Options, width int) float64 {
	fallback := tactical.AutoCalibrate(nil, width, tactical.DefaultConfig().MinConfidence)
	if opts.CalibrationFrames <= 0 {
		return fallback
	}

	cap, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		log.Warn().Err(err).Msg("autoCalibrate: using the visible width estimation")
		return fallback
	}
	defer cap.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	samples := make([][]detection.Detection, 0)
	for i := 0; i < opts.CalibrationFrames && cap.Read(&frame); i++ {
		if i%opts.CalibrationStride != 0 || frame.Empty() {
			continue
		}
		dets, err := detector.Detect(i, frame)
		if err != nil {
			log.Warn().Err(err).Int("frame", i).Msg("autoCalibrate: skipping frame")
			continue
		}
		samples = append(samples, dets.Keypoints)
	}

	ppm := tactical.AutoCalibrate(samples, width, tactical.DefaultConfig().MinConfidence)
	log.Debug().Int("samples", len(samples)).Float64("pixels_to_meters", ppm).Msg("autoCalibrate: done")
	return ppm
}
