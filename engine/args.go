package engine

import (
	"fmt"
	"runtime"
	"strings"
	"unicode"
)

// splitArguments breaks a command string into argv words.
// Whitespace separates words; single and double quotes group them. A backslash
// escapes a following quote, backslash or whitespace and is literal otherwise, so
// unquoted Windows paths survive. Shell operators, variables and comments have no
// special meaning.
func splitArguments(command string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inWord  bool
		quote   rune
	)

	runes := []rune(command)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '\\' && i+1 < len(runes) && escapable(runes[i+1], quote):
			i++
			current.WriteRune(runes[i])
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote in command", quote)
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}

func escapable(next, quote rune) bool {
	switch quote {
	case '\'':
		return false
	case '"':
		return next == '"' || next == '\\'
	default:
		return next == '"' || next == '\'' || next == '\\' || unicode.IsSpace(next)
	}
}

// QuoteArgument wraps s in double quotes so it reaches the tool as one argument.
// On Windows the command line is passed verbatim and s is quoted as is; elsewhere
// embedded quotes and backslashes are escaped for splitArguments.
func QuoteArgument(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + s + `"`
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
