package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/papergrep-cli/internal/core/domain"
)

// writePDF assembles a minimal PDF with one page per text, computing
// the cross-reference offsets as it goes.
func writePDF(t *testing.T, dir, name string, pageTexts []string) string {
	t.Helper()

	var objects []string

	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
			strings.Join(kids, " "), len(pageTexts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	)

	for i, text := range pageTexts {
		escaped := strings.NewReplacer("(", `\(`, ")", `\)`, `\`, `\\`).Replace(text)
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escaped)

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefStart)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtract(t *testing.T) {
	ctx := context.Background()
	extractor := NewExtractor()

	t.Run("single page", func(t *testing.T) {
		path := writePDF(t, t.TempDir(), "one.pdf", []string{"Hello World"})

		doc, err := extractor.Extract(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, path, doc.Path)
		require.Equal(t, 1, doc.PageCount())
		assert.Contains(t, doc.Pages[0], "Hello World")
	})

	t.Run("page order is preserved", func(t *testing.T) {
		path := writePDF(t, t.TempDir(), "three.pdf", []string{"first", "second", "third"})

		doc, err := extractor.Extract(ctx, path)
		require.NoError(t, err)
		require.Equal(t, 3, doc.PageCount())
		assert.Contains(t, doc.Pages[0], "first")
		assert.Contains(t, doc.Pages[1], "second")
		assert.Contains(t, doc.Pages[2], "third")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := extractor.Extract(ctx, "/no/such.pdf")
		assert.ErrorIs(t, err, domain.ErrExtraction)
	})

	t.Run("garbage input is an error, not a panic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.pdf")
		require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o644))

		_, err := extractor.Extract(ctx, path)
		assert.ErrorIs(t, err, domain.ErrExtraction)
	})

	t.Run("truncated file is an error, not a panic", func(t *testing.T) {
		good := writePDF(t, t.TempDir(), "good.pdf", []string{"content"})
		data, err := os.ReadFile(good)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "truncated.pdf")
		require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))

		_, extractErr := extractor.Extract(ctx, path)
		assert.ErrorIs(t, extractErr, domain.ErrExtraction)
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writePDF(t, t.TempDir(), "ctx.pdf", []string{"content"})

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := extractor.Extract(cancelled, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
