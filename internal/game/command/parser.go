package command

import (
	"strings"
	"unicode"
)

// ParseResult is one input line split into a command word and its arguments.
type ParseResult struct {
	// Command is the lowercased first word.
	Command string
	// Args are the remaining words, lowercased.
	Args []string
}

// shortcuts expand single-symbol inputs into full command lines.
var shortcuts = map[string]string{
	"+": "speed +",
	"-": "speed -",
	"=": "speed reset",
	".": "pass",
}

// Parse splits a line into a command and lowercased arguments. A lone symbol
// from the shortcut table expands to its command, and a lone digit N expands
// to "focus N".
//
// Postcondition: Command is empty iff line is blank.
func Parse(line string) ParseResult {
	line = strings.ToLower(strings.TrimSpace(line))
	if expanded, ok := shortcuts[line]; ok {
		line = expanded
	} else if len(line) == 1 && unicode.IsDigit(rune(line[0])) {
		line = "focus " + line
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParseResult{}
	}
	pr := ParseResult{Command: fields[0]}
	if len(fields) > 1 {
		pr.Args = fields[1:]
	}
	return pr
}
