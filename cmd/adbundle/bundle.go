package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/adbundle-go/pkg/adbundle"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/models"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/output"
	"go.uber.org/zap"
)

func newBundleCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		mode       string
		sheetsDir  string
	)

	cmd := &cobra.Command{
		Use:   "bundle [input.xlsx]",
		Short: "Write the data bundle of a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := extractOptions(cmd, mode)
			if err != nil {
				return err
			}

			bundle, err := adbundle.Extract(args[0], opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			jsonData, err := output.ToJSON(bundle, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			// Write output
			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if sheetsDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			}

			// Write per-section files
			if sheetsDir != "" {
				if err := writeSectionFiles(bundle, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}

			logger.Info("bundle written",
				zap.String("input", args[0]),
				zap.Strings("sections", bundle.Aliases()),
				zap.Bool("summary", adbundle.HasSummary(bundle, opts)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&mode, "mode", "standard", "Extraction mode: light, standard")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-section output files")
	return cmd
}

func writeSectionFiles(b *models.Bundle, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range b.Sections {
		jsonData, err := output.SectionToJSON(&b.Sections[i], pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sectionFileName(b.Sections[i].Alias)+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

// sectionFileName replaces characters that are not allowed in file names.
func sectionFileName(alias string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, alias)
}
