package main

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"tasklist/internal/cli"
)

// Persistent flags that consume the following token.
var valueFlags = map[string]bool{
	"--dir":       true,
	"--format":    true,
	"--log-level": true,
}

func isTaskID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

func withShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:at]...)
	out = append(out, "tasks", "show")
	return append(out, argv[at:]...)
}

// rewriteTaskLookupArgs turns `tasklist [flags] <task-id>` into
// `tasklist [flags] tasks show <task-id>`. Cobra would otherwise read the id
// as a subcommand name.
func rewriteTaskLookupArgs(argv []string) []string {
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isTaskID(argv[i+1]) {
				return withShow(argv, i+1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			// Unknown flags and --flag=value forms take no separate value.
			if valueFlags[a] {
				i++
			}
			continue
		case isTaskID(a):
			return withShow(argv, i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteTaskLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
