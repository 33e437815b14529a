package bot

import (
	"regexp"
	"strings"
)

// commandRe matches "/<letters>", an optional "@botname" suffix, and the rest
// of the line as arguments. Since [A-Za-z]+ is greedy, the token always ends
// at the first non-letter; non-matching text is plain conversation.
var commandRe = regexp.MustCompile(`^(/[A-Za-z]+)(?:@\w+)?\s*(.*)$`)

// ParseCommand extracts the command token and trimmed argument string from
// message text. ok is false when the text is not a command.
func ParseCommand(text string) (cmd, args string, ok bool) {
	m := commandRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}
