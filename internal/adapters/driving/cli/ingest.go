package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docchat-labs/docchat/internal/adapters/driven/parser/pdf"
)

var (
	ingestName   string
	ingestPhones []string
)

// mimeTypes maps image extensions to the MIME type sent to OCR.
var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the store",
	Long: `Reads a document, splits it into chunks, embeds each chunk and stores
the result for retrieval. PDFs are parsed locally; images go through OCR;
anything else is treated as plain text.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "source name (default: file name)")
	ingestCmd.Flags().StringArrayVar(&ingestPhones, "phone", nil, "phone number to map to the new source (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	text, err := extractDocumentText(cmd.Context(), path)
	if err != nil {
		return err
	}

	name := ingestName
	if name == "" {
		name = filepath.Base(path)
	}

	svc, err := ensureIngestService()
	if err != nil {
		return err
	}

	result, err := svc.Ingest(cmd.Context(), name, text, ingestOptions(ingestPhones))
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	cmd.Printf("Ingested %s as source %s (%d chunks", name, result.SourceID, result.ChunksStored)
	if result.KeysMapped > 0 {
		cmd.Printf(", %d phone(s) mapped", result.KeysMapped)
	}
	cmd.Println(")")
	return nil
}

// extractDocumentText turns the file into plain text based on its
// extension.
func extractDocumentText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".pdf" {
		return pdf.NewParser().ExtractText(path)
	}

	if mimeType, ok := mimeTypes[ext]; ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		ocr, err := ensureOcr()
		if err != nil {
			return "", err
		}
		return ocr.ExtractText(ctx, data, mimeType)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
