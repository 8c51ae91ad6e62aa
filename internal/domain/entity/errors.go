package entity

import "fmt"

// UnreadableMediaError aborts the whole job: the source file could not be
// decoded at all.
type UnreadableMediaError struct {
	Path   string
	Reason string
}

func (e *UnreadableMediaError) Error() string {
	return fmt.Sprintf("unreadable media %s: %s", e.Path, e.Reason)
}

// EngineUnavailableError is job-level: OCR failed for every sampled frame,
// so no text could be detected at all.
type EngineUnavailableError struct {
	FramesAttempted int
	LastErr         error
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("no text detected: OCR failed for all %d frames: %v", e.FramesAttempted, e.LastErr)
}

func (e *EngineUnavailableError) Unwrap() error { return e.LastErr }

// TranslationFailedError is per-string and never job-fatal; the original
// text is presented instead.
type TranslationFailedError struct {
	Text string
	Err  error
}

func (e *TranslationFailedError) Error() string {
	return fmt.Sprintf("translation failed for %q: %v", e.Text, e.Err)
}

func (e *TranslationFailedError) Unwrap() error { return e.Err }

// InvalidParameterError rejects a request before any processing begins.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}
