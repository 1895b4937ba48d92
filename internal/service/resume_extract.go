package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// extractResumeText pulls the plain-text body out of an uploaded resume so it
// can be searched later. Keyed by normalized content type.
func extractResumeText(contentType string, data []byte) (string, error) {
	switch contentType {
	case "text/plain":
		return string(data), nil

	case "application/pdf":
		return extractPDFText(data)

	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return extractDocxText(data)

	default:
		return "", fmt.Errorf("unsupported file type: %s", contentType)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
