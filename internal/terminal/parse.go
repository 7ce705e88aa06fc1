package terminal

import "strings"

// ParseArgs splits a command line on spaces. A single or double quote opens
// a run that the same quote closes; quotes themselves are dropped and empty
// tokens are never emitted. An unterminated quote runs to the end of line.
func ParseArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quote   rune
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ' ':
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// Commands are the subcommands the interpreter understands, in help order.
var Commands = []string{"add", "list", "toggle", "clear"}

// Complete returns the suffix that would complete input to a known command
// or to the --all flag of list. It returns "" when there is nothing to add.
func Complete(input string) string {
	if input == "" {
		return ""
	}
	parts := strings.Split(input, " ")
	first := parts[0]
	if first == "" {
		return ""
	}

	if len(parts) == 1 {
		cmd := strings.ToLower(first)
		for _, c := range Commands {
			if strings.HasPrefix(c, cmd) && c != cmd {
				return c[len(cmd):]
			}
		}
	}

	if first == "list" && len(parts) == 2 {
		flag := parts[1]
		if strings.HasPrefix("--all", flag) && flag != "--all" {
			return "--all"[len(flag):]
		}
	}
	return ""
}
