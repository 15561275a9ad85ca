package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vcutpro/vcut/internal/jobstore"
	"github.com/vcutpro/vcut/internal/pipeline"
	"github.com/vcutpro/vcut/internal/timecode"
	"github.com/vcutpro/vcut/internal/types"
	"github.com/vcutpro/vcut/internal/upload"
)

const maxMultipartMemory = 32 << 20

// Clipper is the part of the pipeline the HTTP layer drives.
type Clipper interface {
	Run(ctx context.Context, in pipeline.Input) (types.Manifest, error)
	ManualCut(ctx context.Context, videoPath, outDir, startTC, endTC, title string) (types.Manifest, error)
	CollectSignals(ctx context.Context, videoPath, cacheDir string) (*types.ContentSignals, error)
}

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Post("/upload", uploadHandler(cfg))
	r.Get("/status/{jobID}", statusHandler(cfg))
	r.Get("/download/{jobID}/{clipID}", downloadHandler(cfg))
	r.Post("/manual-cut", manualCutHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: "vcut",
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func uploadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		mode := pipeline.Mode(r.FormValue("mode"))
		if mode == "" {
			mode = pipeline.ModeHeuristic
		}
		if mode != pipeline.ModeHeuristic && mode != pipeline.ModeContent {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", mode))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		jobID := uuid.NewString()
		videoPath, err := cfg.Uploads.Save(jobID, header.Filename, file)
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrUnsupportedFormat):
				WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, upload.ErrFileTooLarge):
				WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
			default:
				cfg.Logger.Error().Err(err).Str("job_id", jobID).Msg("upload save failed")
				WriteError(w, http.StatusInternalServerError, "failed to store upload")
			}
			return
		}

		job := &jobstore.Job{
			ID:       jobID,
			Status:   jobstore.StatusProcessing,
			Progress: 0,
			Stage:    "queued",
			Mode:     string(mode),
		}
		if err := cfg.Store.Create(r.Context(), job); err != nil {
			cfg.Logger.Error().Err(err).Str("job_id", jobID).Msg("job create failed")
			WriteError(w, http.StatusInternalServerError, "failed to create job")
			return
		}

		go processJob(cfg, jobID, videoPath, mode)

		WriteJSON(w, http.StatusAccepted, UploadResponse{
			JobID:   jobID,
			Message: "processing started",
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		job, err := cfg.Store.Get(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, jobstore.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "job not found")
				return
			}
			WriteError(w, http.StatusInternalServerError, "failed to load job")
			return
		}
		WriteJSON(w, http.StatusOK, StatusResponse{Job: job})
	}
}

func downloadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		clipID := chi.URLParam(r, "clipID")

		job, err := cfg.Store.Get(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, jobstore.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "job not found")
				return
			}
			WriteError(w, http.StatusInternalServerError, "failed to load job")
			return
		}

		for _, clip := range job.Clips {
			if clip.ID != clipID {
				continue
			}
			if _, err := os.Stat(clip.FilePath); err != nil {
				WriteError(w, http.StatusNotFound, "clip file missing")
				return
			}
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", clip.Filename))
			http.ServeFile(w, r, clip.FilePath)
			return
		}

		WriteError(w, http.StatusNotFound, "clip not found")
	}
}

func manualCutHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		startTC := r.FormValue("start_time")
		endTC := r.FormValue("end_time")
		title := r.FormValue("title")

		start, err := timecode.Parse(startTC)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("start_time: %v", err))
			return
		}
		end, err := timecode.Parse(endTC)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("end_time: %v", err))
			return
		}
		if end <= start {
			WriteError(w, http.StatusBadRequest, "end_time must be after start_time")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()

		jobID := uuid.NewString()
		videoPath, err := cfg.Uploads.Save(jobID, header.Filename, file)
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrUnsupportedFormat):
				WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, upload.ErrFileTooLarge):
				WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
			default:
				cfg.Logger.Error().Err(err).Str("job_id", jobID).Msg("upload save failed")
				WriteError(w, http.StatusInternalServerError, "failed to store upload")
			}
			return
		}

		job := &jobstore.Job{
			ID:       jobID,
			Status:   jobstore.StatusProcessing,
			Progress: 0,
			Stage:    "queued",
			Mode:     "manual",
		}
		if err := cfg.Store.Create(r.Context(), job); err != nil {
			cfg.Logger.Error().Err(err).Str("job_id", jobID).Msg("job create failed")
			WriteError(w, http.StatusInternalServerError, "failed to create job")
			return
		}

		go processManualCut(cfg, jobID, videoPath, startTC, endTC, title)

		WriteJSON(w, http.StatusAccepted, UploadResponse{
			JobID:   jobID,
			Message: "manual cut started",
		})
	}
}

// processJob runs a full clipping job in the background. HTTP request
// contexts do not outlive the response, so jobs run on their own context.
func processJob(cfg ServerConfig, jobID, videoPath string, mode pipeline.Mode) {
	ctx := context.Background()
	logger := cfg.Logger.With().Str("job_id", jobID).Logger()

	in := pipeline.Input{
		VideoPath: videoPath,
		OutDir:    cfg.Uploads.OutputDir(jobID),
		Mode:      mode,
		Progress:  storeProgress(cfg, jobID),
	}

	if mode == pipeline.ModeContent {
		signals, err := cfg.Clipper.CollectSignals(ctx, videoPath, cfg.Uploads.CacheDir(jobID))
		if err != nil {
			logger.Warn().Err(err).Msg("signal collection failed, continuing without")
		} else {
			in.Signals = signals
		}
	}

	manifest, err := cfg.Clipper.Run(ctx, in)
	finishJob(cfg, logger, jobID, manifest, err)
}

func processManualCut(cfg ServerConfig, jobID, videoPath, startTC, endTC, title string) {
	logger := cfg.Logger.With().Str("job_id", jobID).Logger()

	manifest, err := cfg.Clipper.ManualCut(
		context.Background(), videoPath, cfg.Uploads.OutputDir(jobID), startTC, endTC, title)
	finishJob(cfg, logger, jobID, manifest, err)
}

func finishJob(cfg ServerConfig, logger zerolog.Logger, jobID string, manifest types.Manifest, err error) {
	ctx := context.Background()
	job, getErr := cfg.Store.Get(ctx, jobID)
	if getErr != nil {
		logger.Error().Err(getErr).Msg("job vanished before completion")
		return
	}

	if err != nil {
		job.Status = jobstore.StatusError
		job.Error = err.Error()
		job.Stage = "failed"
		logger.Error().Err(err).Msg("job failed")
	} else {
		job.Status = jobstore.StatusCompleted
		job.Progress = 100
		job.Stage = "completed"
		job.Clips = manifest.Clips
		logger.Info().Int("clips", len(manifest.Clips)).Msg("job completed")
	}

	if err := cfg.Store.Update(ctx, job); err != nil {
		logger.Error().Err(err).Msg("job state update failed")
	}
}

// storeProgress forwards pipeline progress into the job record. Update
// failures are swallowed; progress is advisory.
func storeProgress(cfg ServerConfig, jobID string) pipeline.ProgressFunc {
	return func(stage string, percent int) {
		ctx := context.Background()
		job, err := cfg.Store.Get(ctx, jobID)
		if err != nil {
			return
		}
		job.Stage = stage
		job.Progress = percent
		_ = cfg.Store.Update(ctx, job)
	}
}
