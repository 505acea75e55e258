package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	corslib "github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/chenBenjamin97/football-tracker/pkg/analysis"
	"github.com/chenBenjamin97/football-tracker/pkg/match"
	"github.com/chenBenjamin97/football-tracker/pkg/utils"
)

//Analyzer runs one tracking request to completion
type Analyzer func(ctx context.Context, req analysis.Request) (*analysis.Result, error)

type Config struct {
	Uploads       string
	Outputs       string
	CORSOrigins   []string
	RatePerMinute int
}

func ConfigFromViper() Config {
	return Config{
		Uploads:       viper.GetString("directory.uploads"),
		Outputs:       viper.GetString("directory.outputs"),
		CORSOrigins:   viper.GetStringSlice("http.cors_origins"),
		RatePerMinute: viper.GetInt("http.rate_per_minute"),
	}
}

//requestLogger logs every request through zerolog instead of gin's default writer
func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Info().Str("method", ctx.Request.Method).Str("path", ctx.Request.URL.Path).Int("status", ctx.Writer.Status()).Dur("took", time.Since(start)).Msg("api: request")
	}
}

//rateLimit answers 429 once the submissions of the last minute used up the budget
func rateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return func(ctx *gin.Context) {
		if !limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many tracking requests, try again later"})
			return
		}
		ctx.Next()
	}
}

func SetRouter(cfg Config, analyze Analyzer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	//annotated videos, results and charts
	r.Static("/outputs", cfg.Outputs)

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/ReadyVideosNames", func(ctx *gin.Context) {
		names, err := utils.ListDir(cfg.Outputs)
		if err != nil {
			log.Error().Err(err).Msg("api/ReadyVideosNames")
			ctx.Status(http.StatusInternalServerError)
			return
		}

		videos := make([]string, 0, len(names))
		for _, name := range names {
			if strings.HasSuffix(name, ".mp4") && !strings.HasSuffix(name, utils.RawVideoSuffix) {
				videos = append(videos, name)
			}
		}
		ctx.JSON(http.StatusOK, videos)
	})

	apiRoutes.GET("/UserUploadsVideosNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(cfg.Uploads); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	football := apiRoutes.Group("/football")

	football.GET("/matches", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, match.Keys())
	})

	football.GET("/tracking/:id", func(ctx *gin.Context) {
		id, err := uuid.Parse(ctx.Param("id"))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid tracking id"})
			return
		}

		res, err := analysis.Load(filepath.Join(cfg.Outputs, id.String()+".json"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				ctx.Status(http.StatusNotFound)
			} else {
				ctx.Status(http.StatusInternalServerError)
			}
			return
		}
		ctx.JSON(http.StatusOK, res)
	})

	football.POST("/tracking", rateLimit(cfg.RatePerMinute), func(ctx *gin.Context) {
		fHeader, err := ctx.FormFile("video")
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing 'video' file"})
			return
		}

		ext := strings.ToLower(filepath.Ext(fHeader.Filename))
		if !utils.InSlice(ext, utils.VideoExtensions) {
			ctx.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported video format '" + ext + "'"})
			return
		}

		req := analysis.Request{ID: uuid.NewString(), MatchKey: ctx.DefaultQuery("match_key", utils.DefaultMatchKey)}
		if ppm := ctx.Query("pixels_to_meters"); ppm != "" {
			if req.PixelsToMeters, err = strconv.ParseFloat(ppm, 64); err != nil || req.PixelsToMeters <= 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "pixels_to_meters must be a positive number"})
				return
			}
		}

		req.VideoPath = filepath.Join(cfg.Uploads, req.ID+ext)
		if err := ctx.SaveUploadedFile(fHeader, req.VideoPath); err != nil {
			log.Error().Err(err).Str("path", req.VideoPath).Msg("api/tracking: could not save upload")
			ctx.Status(http.StatusInternalServerError)
			return
		}
		defer os.Remove(req.VideoPath)
		log.Info().Str("id", req.ID).Str("name", fHeader.Filename).Int64("size", fHeader.Size).Str("match", req.MatchKey).Msg("api/tracking: received new video")

		res, err := analyze(ctx.Request.Context(), req)
		if err != nil {
			body := gin.H{"error": err.Error()}
			var fe *analysis.FrameError
			if errors.As(err, &fe) {
				body["frame"] = fe.Index
				body["last_good_frame"] = fe.LastGood
			}
			ctx.JSON(http.StatusInternalServerError, body)
			return
		}

		if res.VideoPath != "" {
			res.VideoURL = "/outputs/" + filepath.Base(res.VideoPath)
		}
		if err := res.Save(filepath.Join(cfg.Outputs, req.ID+".json")); err != nil {
			log.Warn().Err(err).Str("id", req.ID).Msg("api/tracking: result not stored")
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":    "success",
			"id":        req.ID,
			"video_url": res.VideoURL,
			"results":   res,
		})
	})

	return r
}

//Handler wraps the router with the CORS policy
func Handler(cfg Config, r http.Handler) http.Handler {
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(r)
}
