package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gtd-cli/internal/cli"
)

// Persistent flags that take a separate value token.
var valueFlags = map[string]bool{
	"--dir":    true,
	"--format": true,
}

func isItemID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "item-") && len(s) > len("item-")
}

// firstPositional returns the index of the first non-flag token, or -1.
func firstPositional(argv []string) int {
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) {
				return i + 1
			}
			return -1
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		return i
	}
	return -1
}

// rewriteItemLookup turns `gtd [flags] item-xxx` into `gtd [flags] items show item-xxx`.
func rewriteItemLookup(argv []string) []string {
	i := firstPositional(argv)
	if i < 0 || !isItemID(argv[i]) {
		return argv
	}
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:i]...)
	out = append(out, "items", "show")
	return append(out, argv[i:]...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	cmd.SetArgs(rewriteItemLookup(os.Args)[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
