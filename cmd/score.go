package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"points/internal/logger"
	"points/internal/scoring"
	"points/pkg/services"
)

var scoreCmd = &cobra.Command{
	Use:   "score [text-file|-]",
	Short: "Score text that was already extracted by OCR",
	Long: `Score the OCR text of a marksheet or certificate.

The text is read from the given file, or from stdin when the argument is
"-" or omitted. Marksheets are scored from their CGPA, adjusted for the
academic stream. Certificates are scored from their type, rank, category
and leadership role.`,
	Example: `  # Score a marksheet for a Humanities student
  points score marksheet.txt --type marksheet --stream Humanities

  # Score a certificate from stdin and print JSON
  cat certificate.txt | points score --type certificate --json

  # Write the result to a file
  points score marksheet.txt --type marksheet --json -o result.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("type", "t", "", "Document type: marksheet or certificate (required)")
	scoreCmd.Flags().StringP("stream", "s", "", "Academic stream (default: DEFAULT_STREAM)")
	scoreCmd.Flags().Bool("json", false, "Output as JSON")
	scoreCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	_ = scoreCmd.MarkFlagRequired("type")
}

func runScore(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("score")

	docType, _ := cmd.Flags().GetString("type")
	stream, _ := cmd.Flags().GetString("stream")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	text, err := readText(cmd.InOrStdin(), source)
	if err != nil {
		log.Error().Err(err).Str("file", source).Msg("Failed to read text")
		return err
	}

	svc := scoring.NewService(nil, appConfig.DefaultStream)
	result := svc.Score(cmd.Context(), text, services.ScoreOptions{DocType: docType, Stream: stream})

	if err := writeResult(cmd.OutOrStdout(), result, outputPath, jsonOutput, log); err != nil {
		return err
	}
	if result.Failed() {
		return fmt.Errorf("scoring failed: %s", result.Error)
	}
	return nil
}

func readText(stdin io.Reader, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("text file not found: %s", source)
		}
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}
