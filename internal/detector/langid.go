package detector

import "unicode"

// Script-range classification, used when the OCR engine gives no language
// hint for a region. Codes are ISO-639-3.
var scriptLangs = []struct {
	lang   string
	ranges []*unicode.RangeTable
}{
	{"hin", []*unicode.RangeTable{unicode.Devanagari}},
	{"ben", []*unicode.RangeTable{unicode.Bengali}},
	{"tam", []*unicode.RangeTable{unicode.Tamil}},
	{"ara", []*unicode.RangeTable{unicode.Arabic}},
	{"rus", []*unicode.RangeTable{unicode.Cyrillic}},
	{"kor", []*unicode.RangeTable{unicode.Hangul}},
	{"jpn", []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana}},
	{"zho", []*unicode.RangeTable{unicode.Han}},
	{"eng", []*unicode.RangeTable{unicode.Latin}},
}

// DetectLanguage classifies text by counting runes per script. Ties break
// toward the more specific script; text with no letters at all reads as
// English, mirroring how the OCR engine reports purely numeric regions.
func DetectLanguage(text string) string {
	counts := make([]int, len(scriptLangs))
	for _, r := range text {
		for i, s := range scriptLangs {
			for _, rt := range s.ranges {
				if unicode.Is(rt, r) {
					counts[i]++
					break
				}
			}
		}
	}

	best, bestCount := "eng", 0
	for i, s := range scriptLangs {
		if counts[i] > bestCount {
			best, bestCount = s.lang, counts[i]
		}
	}
	return best
}

// iso3to1 maps region languages to the ISO-639-1 codes the translation
// service speaks.
var iso3to1 = map[string]string{
	"eng": "en",
	"hin": "hi",
	"ben": "bn",
	"tam": "ta",
	"ara": "ar",
	"rus": "ru",
	"kor": "ko",
	"jpn": "ja",
	"zho": "zh",
}

var iso1to3 = map[string]string{}

func init() {
	for k3, k1 := range iso3to1 {
		iso1to3[k1] = k3
	}
}

// TranslateCode returns the ISO-639-1 code for a detected region language,
// or "auto" when the language is outside the supported set.
func TranslateCode(iso3 string) string {
	if code, ok := iso3to1[iso3]; ok {
		return code
	}
	return "auto"
}

// NormalizeLanguage coerces an engine language hint (ISO-639-1 or -3) into
// the ISO-639-3 code the pipeline uses; unknown hints are discarded.
func NormalizeLanguage(hint string) string {
	if _, ok := iso3to1[hint]; ok {
		return hint
	}
	if iso3, ok := iso1to3[hint]; ok {
		return iso3
	}
	return ""
}
