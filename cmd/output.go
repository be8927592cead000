package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"points/pkg/models"
)

// writeResult renders result as JSON or as "key: value" lines, to outputPath
// when set and to w otherwise.
func writeResult(w io.Writer, result *models.ScoreResult, outputPath string, jsonOutput bool, log zerolog.Logger) error {
	var outputData []byte

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		outputData = append(data, '\n')
	} else {
		outputData = []byte(formatFields(result.Fields()))
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Score written to file")
		return nil
	}

	if _, err := w.Write(outputData); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// formatFields prints points first, then the remaining non-empty fields
// sorted by name. The OCR text is omitted.
func formatFields(fields map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "points: %v\n", fields["points"])

	keys := lo.Filter(lo.Keys(fields), func(k string, _ int) bool {
		return k != "points" && k != "text" && !isEmptyField(fields[k])
	})
	sort.Strings(keys)

	for _, k := range keys {
		switch v := fields[k].(type) {
		case []string:
			fmt.Fprintf(&b, "%s: %s\n", k, strings.Join(v, ", "))
		default:
			fmt.Fprintf(&b, "%s: %v\n", k, v)
		}
	}
	return b.String()
}

func isEmptyField(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	}
	return false
}
