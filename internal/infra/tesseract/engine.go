// Package tesseract adapts the tesseract binary to the TextRecognizer
// port, parsing its TSV output into word-level spans.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/port"
)

type Engine struct {
	binPath string
	langs   string
	logger  *zap.Logger
}

// NewEngine resolves the tesseract binary. langs is a tesseract language
// string such as "eng+hin+ben+tam"; recognition runs over all of them and
// language is attributed per region downstream.
func NewEngine(binPath, langs string, logger *zap.Logger) (*Engine, error) {
	resolved, err := exec.LookPath(binPath)
	if err != nil {
		return nil, fmt.Errorf("tesseract not found at %q: %w", binPath, err)
	}
	return &Engine{binPath: resolved, langs: langs, logger: logger}, nil
}

func (e *Engine) Recognize(ctx context.Context, img image.Image) ([]port.RawSpan, error) {
	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return nil, fmt.Errorf("encode frame for ocr: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.binPath,
		"stdin", "stdout",
		"-l", e.langs,
		"--psm", "3",
		"tsv",
	)
	cmd.Stdin = &input

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	spans := parseTSV(stdout.String())
	e.logger.Debug("ocr complete", zap.Int("word_spans", len(spans)))
	return spans, nil
}

// TSV columns: level page block par line word left top width height conf text.
// Word rows are level 5; rows with negative confidence are layout artifacts,
// not recognized words.
const (
	colLevel = 0
	colBlock = 2
	colPar   = 3
	colLine  = 4
	colLeft  = 6
	colTop   = 7
	colWidth = 8
	colHgt   = 9
	colConf  = 10
	colText  = 11
	numCols  = 12
)

func parseTSV(raw string) []port.RawSpan {
	var spans []port.RawSpan
	for i, line := range strings.Split(raw, "\n") {
		if i == 0 {
			continue // header
		}
		cols := strings.Split(line, "\t")
		if len(cols) < numCols {
			continue
		}
		if cols[colLevel] != "5" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[colConf], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[colText])
		if text == "" {
			continue
		}

		x, _ := strconv.Atoi(cols[colLeft])
		y, _ := strconv.Atoi(cols[colTop])
		w, _ := strconv.Atoi(cols[colWidth])
		h, _ := strconv.Atoi(cols[colHgt])
		block, _ := strconv.Atoi(cols[colBlock])
		par, _ := strconv.Atoi(cols[colPar])
		lineNum, _ := strconv.Atoi(cols[colLine])

		spans = append(spans, port.RawSpan{
			Text:       text,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			Confidence: conf,
			Block:      block,
			Paragraph:  par,
			Line:       lineNum,
		})
	}
	return spans
}
