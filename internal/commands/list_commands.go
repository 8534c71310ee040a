package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// inputAnnotation records where a command reads k6 summary documents from.
const inputAnnotation = "k6merge/input"

// documentInput marks commands that merge documents from file arguments or stdin.
var documentInput = map[string]string{inputAnnotation: "files or stdin"}

// commandRow is one line of the 'commands' listing.
type commandRow struct {
	depth int
	path  string
	input string
	short string
}

// listCommandsCmd implements 'commands', which prints the command tree along with
// where each merging command takes its documents from.
var listCommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands with their document input",
	Run: func(cmd *cobra.Command, args []string) {
		writeCommandTable(cmd.OutOrStdout(), walkCommands(rootCmd, 0))
	},
}

func init() {
	rootCmd.AddCommand(listCommandsCmd)
}

// walkCommands flattens the tree depth-first, skipping cobra's generated help and completion commands.
func walkCommands(cmd *cobra.Command, depth int) []commandRow {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	rows := []commandRow{{
		depth: depth,
		path:  cmd.CommandPath(),
		input: cmd.Annotations[inputAnnotation],
		short: cmd.Short,
	}}
	for _, sub := range cmd.Commands() {
		rows = append(rows, walkCommands(sub, depth+1)...)
	}
	return rows
}

func writeCommandTable(out io.Writer, rows []commandRow) {
	pathWidth, inputWidth := len("COMMAND"), len("INPUT")
	for _, r := range rows {
		pathWidth = max(pathWidth, 2*r.depth+len(r.path))
		inputWidth = max(inputWidth, len(r.input))
	}

	fmt.Fprintf(out, "%-*s  %-*s  %s\n", pathWidth, "COMMAND", inputWidth, "INPUT", "DESCRIPTION")
	for _, r := range rows {
		input := r.input
		if input == "" {
			input = "-"
		}
		path := strings.Repeat("  ", r.depth) + r.path
		fmt.Fprintf(out, "%-*s  %-*s  %s\n", pathWidth, path, inputWidth, input, r.short)
	}
}
