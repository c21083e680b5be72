package driven

// DocumentParser extracts plain text from a binary document format.
type DocumentParser interface {
	// ExtractText reads the document at path and returns its text.
	ExtractText(path string) (string, error)

	// SupportedExtensions returns file extensions this parser handles,
	// lower-cased with the leading dot (".pdf").
	SupportedExtensions() []string
}
