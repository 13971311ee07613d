package platform

import (
	"strings"
	"unicode"
)

// outPlaceholder marks where a capture command expects its output path.
const outPlaceholder = "{out}"

// splitShellWords splits a shell-like command string into argv. Single quotes,
// double quotes and backslash escapes (outside single quotes) are honored.
func splitShellWords(s string) []string {
	var out []string
	var cur strings.Builder
	inSingle, inDouble, escaped, started := false, false, false, false

	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped, started = true, true
		case r == '\'' && !inDouble:
			inSingle, started = !inSingle, true
		case r == '"' && !inSingle:
			inDouble, started = !inDouble, true
		case unicode.IsSpace(r) && !inSingle && !inDouble:
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		out = append(out, cur.String())
	}
	return out
}

// commandArgs expands a configured command into argv with outPath substituted
// for every {out} token. Without a placeholder the path is appended.
func commandArgs(command string, outPath string) []string {
	args := splitShellWords(command)
	if len(args) == 0 {
		return nil
	}
	replaced := false
	for i, a := range args {
		if strings.Contains(a, outPlaceholder) {
			args[i] = strings.ReplaceAll(a, outPlaceholder, outPath)
			replaced = true
		}
	}
	if !replaced {
		args = append(args, outPath)
	}
	return args
}
