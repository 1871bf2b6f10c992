package telegram

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageLen = 4000

// SplitMessage cuts text into parts of at most limit runes, breaking at
// line ends. Lines longer than limit are word-wrapped first.
func SplitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if runeLen(text) <= limit {
		return []string{text}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if runeLen(line) <= limit {
			lines = append(lines, line)
			continue
		}
		for _, w := range strings.Split(wordwrap.WrapString(line, uint(limit)), "\n") {
			// A single word longer than limit stays unbroken in WrapString.
			for runeLen(w) > limit {
				r := []rune(w)
				lines = append(lines, string(r[:limit]))
				w = string(r[limit:])
			}
			lines = append(lines, w)
		}
	}

	var (
		parts []string
		cur   strings.Builder
		n     int
	)
	for _, line := range lines {
		l := runeLen(line)
		if n > 0 && n+1+l > limit {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte('\n')
			n++
		}
		cur.WriteString(line)
		n += l
	}
	if n > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func runeLen(s string) int {
	return len([]rune(s))
}
