package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode"

	"ai-interview-coach-be/internal/pkg/apperror"
)

// MinExtractedTextLength is the minimum text length required for a successful extraction
const MinExtractedTextLength = 50

// Source is a resume input: raw uploaded bytes or a fetchable URL.
type Source struct {
	Data     []byte
	Filename string
	URL      string
}

// Extractor turns a resume source into cleaned plain text.
type Extractor interface {
	ExtractText(ctx context.Context, src Source) (string, error)
}

type documentExtractor struct {
	httpClient *http.Client
}

func New() Extractor {
	return &documentExtractor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *documentExtractor) ExtractText(ctx context.Context, src Source) (string, error) {
	data := src.Data
	if len(data) == 0 && src.URL != "" {
		fetched, err := e.fetch(ctx, src.URL)
		if err != nil {
			return "", err
		}
		data = fetched
	}
	if len(data) == 0 {
		return "", apperror.Extraction("no resume content provided", nil)
	}

	var text string
	var err error
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		text, err = extractPDF(ctx, data)
	case isBinary(data):
		return "", apperror.Extraction("unsupported binary resume format", nil)
	default:
		text = string(data)
	}
	if err != nil {
		return "", err
	}

	text = Normalize(text)
	if len(text) < MinExtractedTextLength {
		return "", apperror.Extraction("extracted resume text is too short", nil)
	}
	return text, nil
}

func (e *documentExtractor) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, apperror.Extraction("invalid resume url", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Extraction("failed to fetch resume url", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Extraction(fmt.Sprintf("resume url returned status %d", resp.StatusCode), nil)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
}

// extractPDF shells out to pdftotext (poppler-utils). The PDF is written to a
// temp file because pdftotext does not read reliably from stdin on all builds.
func extractPDF(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		return "", apperror.Extraction("failed to stage pdf", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", apperror.Extraction("failed to stage pdf", err)
	}
	tmp.Close()

	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", apperror.Extraction("pdf extraction requires 'pdftotext' (install poppler-utils)", err)
	}
	return string(output), nil
}

// Normalize collapses whitespace and strips control characters.
// Deterministic and idempotent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isBinary(data []byte) bool {
	if bytes.HasPrefix(data, []byte("PK")) {
		return true // ZIP container (docx etc.), not supported
	}
	sample := data
	if len(sample) > 1000 {
		sample = sample[:1000]
	}
	nonPrintable := 0
	for _, ch := range sample {
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.3
}
