package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenBenjamin97/football-tracker/pkg/analysis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) Config {
	root := t.TempDir()
	cfg := Config{Uploads: filepath.Join(root, "uploads"), Outputs: filepath.Join(root, "outputs"), CORSOrigins: []string{"*"}}
	require.NoError(t, os.MkdirAll(cfg.Uploads, 0755))
	require.NoError(t, os.MkdirAll(cfg.Outputs, 0755))
	return cfg
}

//fakeAnalyzer writes an output video and records the requests it got
type fakeAnalyzer struct {
	cfg      Config
	requests []analysis.Request
	uploaded []bool
	err      error
}

func (f *fakeAnalyzer) analyze(_ context.Context, req analysis.Request) (*analysis.Result, error) {
	f.requests = append(f.requests, req)
	_, statErr := os.Stat(req.VideoPath)
	f.uploaded = append(f.uploaded, statErr == nil)
	if f.err != nil {
		return nil, f.err
	}

	out := filepath.Join(f.cfg.Outputs, "annotated_"+req.ID+".mp4")
	if err := os.WriteFile(out, []byte("video"), 0644); err != nil {
		return nil, err
	}
	return &analysis.Result{
		Metadata:  analysis.Metadata{ID: req.ID, MatchKey: req.MatchKey, FPS: 25},
		Frames:    []analysis.FrameResult{{FrameIndex: 0, TacticalPositions: map[int][2]float64{}}},
		VideoPath: out,
	}, nil
}

func upload(t *testing.T, url string) *http.Request {
	return uploadNamed(t, url, "clip.mp4")
}

func uploadNamed(t *testing.T, url, name string) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("video", name)
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a video"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r := SetRouter(testConfig(t), nil)
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTracking(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeAnalyzer{cfg: cfg}
	r := SetRouter(cfg, fake.analyze)

	rec := serve(r, upload(t, "/api/football/tracking?match_key=france_croatia&pixels_to_meters=0.05"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "france_croatia", req.MatchKey)
	assert.Equal(t, 0.05, req.PixelsToMeters)
	assert.True(t, fake.uploaded[0], "the upload is on disk while analyzing")
	assert.NoFileExists(t, req.VideoPath, "the upload is removed afterwards")

	var body struct {
		Status   string          `json:"status"`
		ID       string          `json:"id"`
		VideoURL string          `json:"video_url"`
		Results  analysis.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, req.ID, body.ID)
	assert.Equal(t, "/outputs/annotated_"+req.ID+".mp4", body.VideoURL)
	assert.Equal(t, "france_croatia", body.Results.Metadata.MatchKey)

	//stored result and video are served back
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/football/tracking/"+req.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var stored analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, req.ID, stored.Metadata.ID)

	rec = serve(r, httptest.NewRequest(http.MethodGet, body.VideoURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video", rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/ReadyVideosNames", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"annotated_" + req.ID + ".mp4"}, names)
}

func TestTrackingDefaultsMatchKey(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeAnalyzer{cfg: cfg}
	rec := serve(SetRouter(cfg, fake.analyze), upload(t, "/api/football/tracking"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chelsea_man_city", fake.requests[0].MatchKey)
	assert.Zero(t, fake.requests[0].PixelsToMeters)
}

func TestTrackingBadRequests(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeAnalyzer{cfg: cfg}
	r := SetRouter(cfg, fake.analyze)

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/api/football/tracking", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, upload(t, "/api/football/tracking?pixels_to_meters=-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, uploadNamed(t, "/api/football/tracking", "notes.txt"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/football/tracking/../../etc", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/football/tracking/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/api/football/tracking/2f1e5c1a-7c57-4d43-9d1a-2a0c2a8f4b11", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Empty(t, fake.requests)
}

func TestTrackingDetectorFailure(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeAnalyzer{cfg: cfg, err: errors.Wrap(&analysis.FrameError{Index: 12, LastGood: 11, Err: errors.New("model crashed")}, "Analyze")}

	rec := serve(SetRouter(cfg, fake.analyze), upload(t, "/api/football/tracking"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 12.0, body["frame"])
	assert.Equal(t, 11.0, body["last_good_frame"])
	assert.Contains(t, body["error"], "model crashed")
}

func TestTrackingRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.RatePerMinute = 1
	fake := &fakeAnalyzer{cfg: cfg}
	r := SetRouter(cfg, fake.analyze)

	assert.Equal(t, http.StatusOK, serve(r, upload(t, "/api/football/tracking")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, upload(t, "/api/football/tracking")).Code)
	assert.Len(t, fake.requests, 1)

	//reads are not limited
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/football/matches", nil)).Code)
}

func TestCORS(t *testing.T) {
	cfg := testConfig(t)
	h := Handler(cfg, SetRouter(cfg, nil))

	req := httptest.NewRequest(http.MethodOptions, "/api/football/tracking", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, req)
	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
