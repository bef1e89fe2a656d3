package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"resume-dashboard/internal/extract"
)

// errEmptyDocument distinguishes a document with no text from a decode failure.
var errEmptyDocument = errors.New("document contains no text")

func newExtractCmd() *cobra.Command {
	var mimeType string
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the text of a PDF, DOCX or plain-text resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := extract.Text(cmd.Context(), data, mimeType, filepath.Base(args[0]))
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			if res.Empty() {
				return fmt.Errorf("%s: %w", res.Format, errEmptyDocument)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			if res.Pages > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "format=%s pages=%d\n", res.Format, res.Pages)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "format=%s\n", res.Format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "declared content type (sniffed when empty)")
	return cmd
}
