package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/openclaw-protocol/clawpen-go/pkg/log"
)

// RunFilter reads events matching the filter and writes them to a new
// log file.
func RunFilter(inPath, outPath string, filter log.Filter) error {
	reader, err := log.NewFilteredReader(inPath, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	encoder := log.NewEncoder(out)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}
}
