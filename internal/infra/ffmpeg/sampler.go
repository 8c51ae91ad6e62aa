// Package ffmpeg samples frames from media files using the ffmpeg and
// ffprobe binaries, the same external tooling the rest of the processing
// stack relies on.
package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
	"github.com/framelingo/framelingo-annotation-service/internal/imaging"
)

type Sampler struct {
	ffmpegPath  string
	ffprobePath string
	tempDir     string
	logger      *zap.Logger
}

func NewSampler(tempDir string, logger *zap.Logger) (*Sampler, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Sampler{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		tempDir:     tempDir,
		logger:      logger,
	}, nil
}

// Sample emits frames in processing order, numbered from 0. A still image
// yields exactly one frame; video frames are picked at uniform stride so
// they span the full duration.
func (s *Sampler) Sample(ctx context.Context, path string, kind entity.MediaKind, maxFrames int) ([]entity.SampledFrame, error) {
	if kind == entity.MediaKindImage {
		return s.sampleImage(path)
	}
	return s.sampleVideo(ctx, path, maxFrames)
}

func (s *Sampler) sampleImage(path string) ([]entity.SampledFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &entity.UnreadableMediaError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, &entity.UnreadableMediaError{Path: path, Reason: err.Error()}
	}
	return []entity.SampledFrame{{FrameNumber: 0, Image: img}}, nil
}

func (s *Sampler) sampleVideo(ctx context.Context, path string, maxFrames int) ([]entity.SampledFrame, error) {
	info, err := s.probe(ctx, path)
	if err != nil {
		return nil, &entity.UnreadableMediaError{Path: path, Reason: err.Error()}
	}

	stride := selectStride(info.totalFrames, maxFrames)

	outDir := filepath.Join(s.tempDir, uuid.NewString())
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	pattern := filepath.Join(outDir, "frame_%05d.png")
	cmd := exec.CommandContext(ctx, s.ffmpegPath,
		"-i", path,
		"-vf", fmt.Sprintf(`select=not(mod(n\,%d))`, stride),
		"-vsync", "vfr",
		"-frames:v", strconv.Itoa(maxFrames),
		"-y",
		pattern,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &entity.UnreadableMediaError{Path: path, Reason: fmt.Sprintf("ffmpeg: %v: %s", err, truncate(string(output), 300))}
	}

	paths, err := filepath.Glob(filepath.Join(outDir, "frame_*.png"))
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	if len(paths) == 0 {
		return nil, &entity.UnreadableMediaError{Path: path, Reason: "no frames decoded from video"}
	}
	sort.Strings(paths)

	frames := make([]entity.SampledFrame, 0, len(paths))
	for i, fp := range paths {
		f, err := os.Open(fp)
		if err != nil {
			return nil, fmt.Errorf("open frame %s: %w", fp, err)
		}
		img, err := imaging.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode frame %s: %w", fp, err)
		}
		frames = append(frames, entity.SampledFrame{
			FrameNumber: i,
			Image:       img,
			Timestamp:   frameTimestamp(i, stride, info.fps),
		})
	}

	s.logger.Info("frames sampled",
		zap.Int("count", len(frames)),
		zap.Int("stride", stride),
		zap.Int("total_frames", info.totalFrames),
	)
	return frames, nil
}

// selectStride is the uniform sampling policy: round(total/max), never
// below 1, so selected frames cover the whole clip instead of clustering
// at the start. When total <= max every frame is emitted.
func selectStride(totalFrames, maxFrames int) int {
	if totalFrames <= maxFrames {
		return 1
	}
	stride := int(math.Round(float64(totalFrames) / float64(maxFrames)))
	if stride < 1 {
		stride = 1
	}
	return stride
}

func frameTimestamp(emitted, stride int, fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	seconds := float64(emitted*stride) / fps
	return time.Duration(seconds * float64(time.Second))
}

type videoInfo struct {
	totalFrames int
	fps         float64
}

// fallbackFrameCount is used when the container reports neither a frame
// count nor a usable duration.
const fallbackFrameCount = 300

func (s *Sampler) probe(ctx context.Context, path string) (videoInfo, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames,r_frame_rate,duration:format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return videoInfo{}, fmt.Errorf("ffprobe: %w", err)
	}

	fields := map[string]string{}
	for _, line := range strings.Split(string(output), "\n") {
		if k, v, ok := strings.Cut(strings.TrimSpace(line), "="); ok {
			fields[k] = v
		}
	}

	info := videoInfo{fps: parseFrameRate(fields["r_frame_rate"])}

	if n, err := strconv.Atoi(fields["nb_frames"]); err == nil && n > 0 {
		info.totalFrames = n
		return info, nil
	}

	// Stream and format duration both print as duration= lines; the last
	// numeric one wins, which is the format fallback when the stream has N/A.
	duration, _ := strconv.ParseFloat(fields["duration"], 64)
	if duration > 0 && info.fps > 0 {
		info.totalFrames = int(duration * info.fps)
	}
	if info.totalFrames <= 0 {
		info.totalFrames = fallbackFrameCount
	}
	return info, nil
}

func parseFrameRate(raw string) float64 {
	num, den, ok := strings.Cut(raw, "/")
	if !ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return 0
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
