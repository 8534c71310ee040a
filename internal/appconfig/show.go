package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	format := cfg.Format
	if f, err := cfg.OutputFormat(); err == nil {
		format = string(f)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:       %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log Level:   %s\n", cfg.Level())
	fmt.Fprintf(out, "  Log File:    %s\n", displayOrDefault(cfg.LogFile, "(stderr only)"))
	fmt.Fprintf(out, "  Format:      %s\n", format)
	fmt.Fprintf(out, "  Compact:     %v\n", cfg.Compact)
	fmt.Fprintf(out, "  Concurrency: %d\n", cfg.LoadConcurrency())
	fmt.Fprintf(out, "  No Color:    %v\n", cfg.NoColor)
}
