package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	sentinelStart = "<!-- matsym:start -->"
	sentinelEnd   = "<!-- matsym:end -->"
)

func (a *app) newInitCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path-to-CLAUDE.md]",
		Short: "Write a matsym usage section to a CLAUDE.md file",
		Long: `Write a matsym usage section to a CLAUDE.md file. The section is wrapped in
sentinel comments so it can be updated in place on subsequent runs without
touching surrounding content. Creates the file if it does not exist.

path-to-CLAUDE.md defaults to ./CLAUDE.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := generateSection()

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(a.stdout, section)
				return nil
			}

			path := "CLAUDE.md"
			if len(args) > 0 {
				path = args[0]
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(a.stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(a.stderr, "wrote matsym section to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// generateSection returns the full sentinel-wrapped matsym documentation block.
func generateSection() string {
	body := `## matsym: MATLAB/Octave symbol map

Run ` + "`matsym index`" + ` via the Bash tool at the start of any task on an unfamiliar
MATLAB or Octave codebase. It produces a ranked map of function files, struct
fields, multi-return calls and file dependencies.

**Availability:** Check with ` + "`matsym version`" + ` first; skip gracefully if
not found.

**Run it:**
` + "```" + `bash
matsym index                                 # current directory
matsym index /path/to/project                # explicit path
matsym index -n 20                           # limit to top 20 files
matsym index --cache .matsym-cache           # cache output (fast on repeat runs)
matsym index --struct opts                   # files using a struct named like opts
matsym locate solver.m tol                   # where is tol declared?
matsym occurrences solver.m tol -o text      # every use of tol as row:column
` + "```" + `

**Caching:** Use ` + "`--cache <file>`" + ` to avoid re-scanning on every call. Add the
cache file to ` + "`.gitignore`" + `. A conventional path is ` + "`.matsym-cache`" + `.

**All commands:** ` + "`matsym --help`" + `

**How to use the output:**

1. **Read files in ranked order.** The ` + "`files`" + ` table is sorted by PageRank
   (most referenced first).

2. **Use ` + "`structs`" + ` to learn field names** before grepping for them.

3. **Use ` + "`dependencies`" + ` to trace which function files a file calls.**

4. **Positions are zero-based.** ` + "`locate`" + ` and ` + "`occurrences`" + ` report row and
   column starting at 0.`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
