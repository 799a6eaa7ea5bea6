package main

import (
	"os"
	"strconv"
	"strings"

	"recipe-keeper/internal/cli"
)

func isRecipeID(s string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil && n > 0
}

// rewriteDirectRecipeLookupArgs turns `recipekeeper <id>` into
// `recipekeeper show <id>`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing. Persistent flags may come
// first, so the first positional token is searched for, not just argv[1].
func rewriteDirectRecipeLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without consuming a value so the
	// id is never swallowed.
	valueFlags := map[string]bool{
		"--db":         true,
		"--config-dir": true,
		"--format-out": true,
		"--log-level":  true,
	}

	insertShow := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isRecipeID(argv[i+1]) {
				return insertShow(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isRecipeID(a) {
			return insertShow(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectRecipeLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
