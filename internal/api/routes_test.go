package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vcutpro/vcut/internal/jobstore"
	"github.com/vcutpro/vcut/internal/pipeline"
	"github.com/vcutpro/vcut/internal/types"
	"github.com/vcutpro/vcut/internal/upload"
)

type fakeClipper struct {
	mu sync.Mutex

	manifest    types.Manifest
	runErr      error
	signals     *types.ContentSignals
	signalsErr  error
	lastInput   pipeline.Input
	signalCalls int
	manualCalls int
	lastStart   string
	lastEnd     string
	lastTitle   string
}

func (f *fakeClipper) Run(_ context.Context, in pipeline.Input) (types.Manifest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInput = in
	if f.runErr != nil {
		return types.Manifest{}, f.runErr
	}
	return f.manifest, nil
}

func (f *fakeClipper) ManualCut(_ context.Context, _, _, startTC, endTC, title string) (types.Manifest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manualCalls++
	f.lastStart = startTC
	f.lastEnd = endTC
	f.lastTitle = title
	if f.runErr != nil {
		return types.Manifest{}, f.runErr
	}
	return f.manifest, nil
}

func (f *fakeClipper) CollectSignals(_ context.Context, _, _ string) (*types.ContentSignals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signalCalls++
	return f.signals, f.signalsErr
}

func newTestServer(t *testing.T, clipper *fakeClipper) (*chiHarness, jobstore.Store) {
	t.Helper()
	store := jobstore.NewMemory()
	t.Cleanup(func() { store.Close() })

	cfg := ServerConfig{
		ListenAddr: "127.0.0.1:0",
		Store:      store,
		Uploads:    upload.NewManager(t.TempDir(), 10<<20),
		Clipper:    clipper,
		Logger:     zerolog.Nop(),
		StartTime:  time.Now(),
	}
	return &chiHarness{router: NewRouter(cfg)}, store
}

type chiHarness struct {
	router http.Handler
}

func (h *chiHarness) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s) error = %v", k, err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func waitForJob(t *testing.T, store jobstore.Store, jobID string, want jobstore.Status) *jobstore.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.Get(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestHealthHandler(t *testing.T) {
	h, _ := newTestServer(t, &fakeClipper{})

	rr := h.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeJSONBody(t, rr)
	if body["status"] != "ok" {
		t.Fatalf("status = %v, want ok", body["status"])
	}
}

func TestUploadHandler_Flow(t *testing.T) {
	clipDir := t.TempDir()
	clipPath := filepath.Join(clipDir, "clip_1_big_moment.mp4")
	if err := os.WriteFile(clipPath, []byte("encoded video"), 0o644); err != nil {
		t.Fatal(err)
	}

	clipper := &fakeClipper{
		manifest: types.Manifest{Clips: []types.ClipResult{{
			ID:       "clip_1",
			Filename: "clip_1_big_moment.mp4",
			FilePath: clipPath,
			Score:    9.1,
			Title:    "Big moment",
		}}},
	}
	h, store := newTestServer(t, clipper)

	buf, contentType := multipartBody(t, nil, "video.mp4", []byte("fake mp4 bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	rr := h.do(req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status code = %d, want %d: %s", rr.Code, http.StatusAccepted, rr.Body.String())
	}
	var resp UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("job_id missing from response")
	}

	job := waitForJob(t, store, resp.JobID, jobstore.StatusCompleted)
	if job.Mode != string(pipeline.ModeHeuristic) {
		t.Errorf("job mode = %s, want %s", job.Mode, pipeline.ModeHeuristic)
	}
	if len(job.Clips) != 1 || job.Clips[0].ID != "clip_1" {
		t.Fatalf("job clips = %+v, want one clip_1", job.Clips)
	}
	if job.Progress != 100 {
		t.Errorf("progress = %d, want 100", job.Progress)
	}

	// The saved upload lands in the job's own directory.
	clipper.mu.Lock()
	savedPath := clipper.lastInput.VideoPath
	clipper.mu.Unlock()
	if _, err := os.Stat(savedPath); err != nil {
		t.Fatalf("uploaded file not on disk at %s: %v", savedPath, err)
	}

	// Download round-trip.
	dl := h.do(httptest.NewRequest(http.MethodGet, "/download/"+resp.JobID+"/clip_1", nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d, want %d", dl.Code, http.StatusOK)
	}
	if got, _ := io.ReadAll(dl.Body); string(got) != "encoded video" {
		t.Errorf("download body = %q", got)
	}
	if cd := dl.Header().Get("Content-Disposition"); cd == "" {
		t.Error("missing Content-Disposition header")
	}

	dl404 := h.do(httptest.NewRequest(http.MethodGet, "/download/"+resp.JobID+"/clip_99", nil))
	if dl404.Code != http.StatusNotFound {
		t.Errorf("unknown clip status = %d, want %d", dl404.Code, http.StatusNotFound)
	}
}

func TestUploadHandler_ContentModeCollectsSignals(t *testing.T) {
	clipper := &fakeClipper{
		signals: &types.ContentSignals{
			Transcript: types.Transcript{Segments: []types.TranscriptSegment{
				{Start: 0, End: 5, Text: "amazing stuff"},
			}},
		},
	}
	h, store := newTestServer(t, clipper)

	buf, contentType := multipartBody(t, map[string]string{"mode": "content"}, "talk.mkv", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	rr := h.do(req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusAccepted)
	}
	var resp UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	waitForJob(t, store, resp.JobID, jobstore.StatusCompleted)

	clipper.mu.Lock()
	defer clipper.mu.Unlock()
	if clipper.signalCalls != 1 {
		t.Errorf("signal collections = %d, want 1", clipper.signalCalls)
	}
	if clipper.lastInput.Signals == nil {
		t.Error("signals not forwarded to the run")
	}
	if clipper.lastInput.Mode != pipeline.ModeContent {
		t.Errorf("mode = %s, want %s", clipper.lastInput.Mode, pipeline.ModeContent)
	}
}

func TestUploadHandler_SignalFailureStillRuns(t *testing.T) {
	clipper := &fakeClipper{signalsErr: errors.New("whisper exploded")}
	h, store := newTestServer(t, clipper)

	buf, contentType := multipartBody(t, map[string]string{"mode": "content"}, "talk.mp4", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	rr := h.do(req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusAccepted)
	}
	var resp UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	job := waitForJob(t, store, resp.JobID, jobstore.StatusCompleted)
	if job.Error != "" {
		t.Errorf("job error = %q, want empty", job.Error)
	}
	clipper.mu.Lock()
	defer clipper.mu.Unlock()
	if clipper.lastInput.Signals != nil {
		t.Error("failed signal collection should leave signals nil")
	}
}

func TestUploadHandler_BadRequests(t *testing.T) {
	h, _ := newTestServer(t, &fakeClipper{})

	t.Run("unsupported format", func(t *testing.T) {
		buf, contentType := multipartBody(t, nil, "notes.txt", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", buf)
		req.Header.Set("Content-Type", contentType)
		if rr := h.do(req); rr.Code != http.StatusBadRequest {
			t.Errorf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		buf, contentType := multipartBody(t, map[string]string{"mode": "psychic"}, "v.mp4", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", buf)
		req.Header.Set("Content-Type", contentType)
		if rr := h.do(req); rr.Code != http.StatusBadRequest {
			t.Errorf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		buf, contentType := multipartBody(t, map[string]string{"mode": "heuristic"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", buf)
		req.Header.Set("Content-Type", contentType)
		if rr := h.do(req); rr.Code != http.StatusBadRequest {
			t.Errorf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})
}

func TestUploadHandler_RunFailureMarksJob(t *testing.T) {
	clipper := &fakeClipper{runErr: errors.New("source unreadable")}
	h, store := newTestServer(t, clipper)

	buf, contentType := multipartBody(t, nil, "broken.mp4", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	rr := h.do(req)
	var resp UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	job := waitForJob(t, store, resp.JobID, jobstore.StatusError)
	if job.Error != "source unreadable" {
		t.Errorf("job error = %q, want %q", job.Error, "source unreadable")
	}
}

func TestStatusHandler_NotFound(t *testing.T) {
	h, _ := newTestServer(t, &fakeClipper{})
	rr := h.do(httptest.NewRequest(http.MethodGet, "/status/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDownloadHandler_UnknownJob(t *testing.T) {
	h, _ := newTestServer(t, &fakeClipper{})
	rr := h.do(httptest.NewRequest(http.MethodGet, "/download/nope/clip_1", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestManualCutHandler(t *testing.T) {
	clipper := &fakeClipper{
		manifest: types.Manifest{Clips: []types.ClipResult{{
			ID:          "manual_clip",
			Title:       "Intro",
			Description: "Manual cut 00:30 - 01:00",
		}}},
	}
	h, store := newTestServer(t, clipper)

	fields := map[string]string{
		"start_time": "00:30",
		"end_time":   "01:00",
		"title":      "Intro",
	}
	buf, contentType := multipartBody(t, fields, "v.mp4", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/manual-cut", buf)
	req.Header.Set("Content-Type", contentType)

	rr := h.do(req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status code = %d, want %d: %s", rr.Code, http.StatusAccepted, rr.Body.String())
	}
	var resp UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	job := waitForJob(t, store, resp.JobID, jobstore.StatusCompleted)
	if job.Mode != "manual" {
		t.Errorf("job mode = %s, want manual", job.Mode)
	}
	if len(job.Clips) != 1 || job.Clips[0].ID != "manual_clip" {
		t.Fatalf("job clips = %+v, want one manual_clip", job.Clips)
	}

	clipper.mu.Lock()
	defer clipper.mu.Unlock()
	if clipper.lastStart != "00:30" || clipper.lastEnd != "01:00" || clipper.lastTitle != "Intro" {
		t.Errorf("manual cut args = (%s, %s, %s)", clipper.lastStart, clipper.lastEnd, clipper.lastTitle)
	}
}

func TestManualCutHandler_Validation(t *testing.T) {
	h, _ := newTestServer(t, &fakeClipper{})

	cases := []struct {
		name   string
		fields map[string]string
	}{
		{"malformed start", map[string]string{"start_time": "half past", "end_time": "01:00"}},
		{"malformed end", map[string]string{"start_time": "00:30", "end_time": "1h"}},
		{"inverted range", map[string]string{"start_time": "01:00", "end_time": "00:30"}},
		{"zero length", map[string]string{"start_time": "00:30", "end_time": "00:30"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf, contentType := multipartBody(t, tc.fields, "v.mp4", []byte("x"))
			req := httptest.NewRequest(http.MethodPost, "/manual-cut", buf)
			req.Header.Set("Content-Type", contentType)
			if rr := h.do(req); rr.Code != http.StatusBadRequest {
				t.Errorf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}
