package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chenBenjamin97/football-tracker/pkg/analysis"
	"github.com/chenBenjamin97/football-tracker/pkg/api"
	"github.com/chenBenjamin97/football-tracker/pkg/match"
	"github.com/chenBenjamin97/football-tracker/pkg/utils"
	"github.com/chenBenjamin97/football-tracker/pkg/video"
)

var (
	configFile string
	logLevel   string
)

func main() {
	root := &cobra.Command{
		Use:           "football-tracker",
		Short:         "Track players and ball in football videos and measure possession",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			//.env is optional, it only feeds FT_* variables
			if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
				return errors.Wrap(err, "could not read .env")
			}
			if err := utils.LoadConfig(configFile); err != nil {
				return err
			}
			setupLogger()

			//create missing directories from config file
			return utils.EnsureDirs(utils.DataDirs()...)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides log.level from the configuration")

	root.AddCommand(serveCmd(), analyzeCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("football-tracker")
	}
}

func setupLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	level := viper.GetString("log.level")
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

//newAnalyzer starts the detector once, analyses are serialized since they share the detector process
func newAnalyzer() (api.Analyzer, func() error, error) {
	detector, err := video.NewScriptDetector()
	if err != nil {
		return nil, nil, err
	}
	opts := video.OptionsFromConfig()

	var mu sync.Mutex
	analyze := func(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
		mu.Lock()
		defer mu.Unlock()
		return video.Analyze(ctx, req, detector, opts)
	}
	return analyze, detector.Close, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracking HTTP api",
		RunE: func(cmd *cobra.Command, args []string) error {
			analyze, closeDetector, err := newAnalyzer()
			if err != nil {
				return err
			}
			defer closeDetector()

			cfg := api.ConfigFromViper()
			srv := &http.Server{
				Addr:    ":" + viper.GetString("http.port"),
				Handler: api.Handler(cfg, api.SetRouter(cfg, analyze)),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("serve: shutdown")
				}
			}()

			log.Info().Str("addr", srv.Addr).Msg("serve: listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "serve")
			}
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	var req analysis.Request
	var out string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one video file and store the results as json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.VideoPath == "" {
				return errors.New("analyze: --video is required")
			}
			if !match.Known(req.MatchKey) {
				log.Warn().Str("match", req.MatchKey).Strs("known", match.Keys()).Msg("analyze: unknown match, using default colors")
			}
			if req.ID == "" {
				req.ID = uuid.NewString()
			}

			analyze, closeDetector, err := newAnalyzer()
			if err != nil {
				return err
			}
			defer closeDetector()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := analyze(ctx, req)
			if err != nil {
				return err
			}

			if out == "" {
				out = filepath.Join(viper.GetString("directory.outputs"), req.ID+".json")
			}
			if err := res.Save(out); err != nil {
				return err
			}

			fmt.Printf("%s\tframes=%d passes=%d video=%s results=%s\n", req.ID, len(res.Frames), len(res.Passes), res.VideoPath, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.VideoPath, "video", "", "input video")
	cmd.Flags().StringVar(&req.MatchKey, "match", utils.DefaultMatchKey, "match preset selecting team names and jersey colors")
	cmd.Flags().Float64Var(&req.PixelsToMeters, "ppm", 0, "meters per pixel, estimated from pitch keypoints when 0")
	cmd.Flags().StringVar(&req.ID, "id", "", "run id (default random uuid)")
	cmd.Flags().StringVar(&out, "out", "", "results file (default <outputs>/<id>.json)")
	return cmd
}
