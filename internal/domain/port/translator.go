package port

import "context"

// Translator is the narrow seam to the external translation capability:
// given text and language codes (ISO-639-1), return the translated text.
// It may fail or time out; retry policy belongs to the caller.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
