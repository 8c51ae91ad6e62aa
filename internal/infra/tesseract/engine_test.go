package tesseract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t640\t480\t-1\t\n" +
	"2\t1\t1\t0\t0\t0\t10\t10\t200\t40\t-1\t\n" +
	"4\t1\t1\t1\t1\t0\t10\t10\t200\t18\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t60\t18\t91.5\tHello\n" +
	"5\t1\t1\t1\t1\t2\t75\t10\t70\t18\t88.2\tWorld\n" +
	"5\t1\t1\t1\t2\t1\t10\t32\t90\t20\t66.0\tनमस्ते\n" +
	"5\t1\t1\t1\t2\t2\t105\t32\t10\t20\t12.0\t \n" +
	"5\t1\t2\t1\t1\t1\t300\t300\t40\t14\t-1\tghost\n"

func TestParseTSV(t *testing.T) {
	spans := parseTSV(sampleTSV)
	require.Len(t, spans, 3, "non-word rows, blank text and negative confidence are skipped")

	assert.Equal(t, "Hello", spans[0].Text)
	assert.Equal(t, 10, spans[0].X)
	assert.Equal(t, 60, spans[0].Width)
	assert.InDelta(t, 91.5, spans[0].Confidence, 0.001)
	assert.Equal(t, 1, spans[0].Block)
	assert.Equal(t, 1, spans[0].Line)

	assert.Equal(t, "World", spans[1].Text)
	assert.Equal(t, 1, spans[1].Line)

	assert.Equal(t, "नमस्ते", spans[2].Text)
	assert.Equal(t, 2, spans[2].Line)
}

func TestParseTSVEmptyOutput(t *testing.T) {
	assert.Empty(t, parseTSV(""))
	assert.Empty(t, parseTSV("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"))
}

func TestParseTSVMalformedRows(t *testing.T) {
	raw := "header\n5\t1\t1\n5\tnot\tenough\tcolumns\n"
	assert.Empty(t, parseTSV(raw))
}
