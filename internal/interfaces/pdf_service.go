package interfaces

// PDFService renders markdown report documents to PDF for download.
type PDFService interface {
	// ConvertMarkdownToPDF renders a markdown document to PDF bytes.
	ConvertMarkdownToPDF(markdown, title string) ([]byte, error)
}
