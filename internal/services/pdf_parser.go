package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	ReasonInvalidFile = "invalid file"
	ReasonNoPages     = "no pages"
)

type PDFParserService interface {
	Validate(data []byte) (bool, string)
	ExtractText(data []byte) (string, error)
	ExtractTextWithMetaData(data []byte) (*PDFContent, error)
}

type PDFContent struct {
	Text          string
	PageCount     int
	PagesWithText int
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// openPDF parses the container. The pdf package panics on some malformed
// inputs, so panics are turned into errors here.
func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func numPages(r *pdf.Reader) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()
	return r.NumPage(), nil
}

func (p *pdfParserService) Validate(data []byte) (bool, string) {
	r, err := openPDF(data)
	if err != nil {
		return false, ReasonInvalidFile
	}

	n, err := numPages(r)
	if err != nil {
		return false, ReasonInvalidFile
	}
	if n == 0 {
		return false, ReasonNoPages
	}

	return true, ""
}

func (p *pdfParserService) ExtractText(data []byte) (string, error) {
	content, err := p.ExtractTextWithMetaData(data)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

func (p *pdfParserService) ExtractTextWithMetaData(data []byte) (*PDFContent, error) {
	r, err := openPDF(data)
	if err != nil {
		return nil, newError(KindUnprocessable, "Failed to process PDF", fmt.Errorf("failed to open PDF: %w", err))
	}

	totalPage, err := numPages(r)
	if err != nil {
		return nil, newError(KindUnprocessable, "Failed to process PDF", err)
	}

	pages := make([]string, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		text, ok := pageText(r, pageIndex)
		if !ok {
			continue
		}
		pages = append(pages, text)
	}

	if len(pages) == 0 {
		return nil, newError(KindUnprocessable, "No text content could be extracted from the PDF", nil)
	}

	return &PDFContent{
		Text:          strings.Join(pages, "\n\n"),
		PageCount:     totalPage,
		PagesWithText: len(pages),
	}, nil
}

// pageText returns the trimmed text of a page, or false when the page has
// no extractable text.
func pageText(r *pdf.Reader, index int) (text string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			text, ok = "", false
		}
	}()

	page := r.Page(index)
	if page.V.IsNull() {
		return "", false
	}

	raw, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}

	text = strings.TrimSpace(raw)
	return text, text != ""
}
