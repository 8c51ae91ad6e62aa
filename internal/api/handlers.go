package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
)

// Processor is the pipeline as the transport layer sees it.
type Processor interface {
	Execute(ctx context.Context, job *entity.MediaJob) (*entity.PipelineResult, error)
}

var videoExts = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tiff": true, ".webp": true,
}

type Handler struct {
	processor        Processor
	uploadDir        string
	maxUploadSize    int64
	defaultMaxFrames int
	logger           *zap.Logger
}

func NewHandler(processor Processor, uploadDir string, maxUploadSize int64, defaultMaxFrames int, logger *zap.Logger) *Handler {
	return &Handler{
		processor:        processor,
		uploadDir:        uploadDir,
		maxUploadSize:    maxUploadSize,
		defaultMaxFrames: defaultMaxFrames,
		logger:           logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "framelingo-annotation-service",
	})
}

type languageInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	LTCode string `json:"lt_code,omitempty"`
}

func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]languageInfo{
		"source_languages": {
			{Code: "eng", Name: "English", LTCode: "en"},
			{Code: "hin", Name: "Hindi", LTCode: "hi"},
			{Code: "ben", Name: "Bengali", LTCode: "bn"},
			{Code: "tam", Name: "Tamil", LTCode: "ta"},
		},
		"target_languages": {
			{Code: "en", Name: "English"},
			{Code: "hi", Name: "Hindi"},
			{Code: "bn", Name: "Bengali"},
			{Code: "ta", Name: "Tamil"},
		},
	})
}

// Process accepts a multipart media upload, runs the pipeline and returns
// the aggregated result. Translation failures degrade in-band; only
// whole-job failures produce an error response.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	var kind entity.MediaKind
	switch {
	case videoExts[ext]:
		kind = entity.MediaKindVideo
	case imageExts[ext]:
		kind = entity.MediaKindImage
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	targetLang := r.URL.Query().Get("target_lang")
	if targetLang == "" {
		targetLang = "en"
	}

	maxFrames := h.defaultMaxFrames
	if raw := r.URL.Query().Get("max_frames"); raw != "" {
		maxFrames, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_frames must be an integer")
			return
		}
	}

	path, err := h.saveUpload(file, ext)
	if err != nil {
		h.logger.Error("failed to save upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(path)

	job := entity.NewMediaJob(path, kind, targetLang, maxFrames)
	result, err := h.processor.Execute(r.Context(), job)
	if err != nil {
		h.writeDomainError(w, job, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) saveUpload(file io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

func (h *Handler) writeDomainError(w http.ResponseWriter, job *entity.MediaJob, err error) {
	var invalidErr *entity.InvalidParameterError
	var unreadableErr *entity.UnreadableMediaError
	var engineErr *entity.EngineUnavailableError

	switch {
	case errors.As(err, &invalidErr):
		writeError(w, http.StatusBadRequest, invalidErr.Error())
	case errors.As(err, &unreadableErr):
		writeError(w, http.StatusBadRequest, "cannot decode media file: "+unreadableErr.Reason)
	case errors.As(err, &engineErr):
		writeError(w, http.StatusBadGateway, engineErr.Error())
	default:
		h.logger.Error("processing failed", zap.String("job_id", job.ID.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "processing failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
