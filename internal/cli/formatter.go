package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/idelchi/dirtools/internal/foldersize"
)

// PrintJSON outputs v in indented JSON format.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintYAML outputs v in YAML format.
func PrintYAML(v any, writer io.Writer) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return err
	}

	return nil
}

// PrintRows outputs one "<size> <unit>:\t<path>" line per row, truncated to
// width columns when width is positive.
func PrintRows(rows []foldersize.Row, writer io.Writer, width int) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(writer, truncate(row.String(), width)); err != nil {
			return err
		}
	}

	return nil
}
