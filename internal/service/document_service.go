package service

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/lshigami/kwizify/config"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/rs/zerolog/log"
)

type DocumentService interface {
	// ExtractText returns the plain text of an uploaded document. Files ending in .pdf are
	// parsed as PDF; anything else is read as UTF-8 with invalid bytes replaced.
	ExtractText(filename string, content []byte) (string, error)
}

type documentService struct {
	maxBytes int64
}

func NewDocumentService(cfg *config.Config) DocumentService {
	return &documentService{maxBytes: cfg.Upload.MaxBytes}
}

func (s *documentService) ExtractText(filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: uploaded file is empty", apperr.ErrValidation)
	}
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", apperr.ErrValidation, s.maxBytes)
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return extractPDFText(filename, content)
	}
	return strings.ToValidUTF8(string(content), "\uFFFD"), nil
}

func extractPDFText(filename string, content []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Str("filename", filename).Msg("ExtractText: pdf parser panicked")
			err = fmt.Errorf("%w: unreadable pdf", apperr.ErrValidation)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: invalid pdf: %v", apperr.ErrValidation, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: failed to read pdf text: %v", apperr.ErrValidation, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	log.Info().Str("filename", filename).Int("pages", reader.NumPage()).Int("chars", buf.Len()).Msg("PDF text extracted")
	return buf.String(), nil
}
