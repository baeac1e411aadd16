package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const summaryMaxRunes = 140

// firstSentence returns the text up to the first period with whitespace collapsed,
// truncated with an ellipsis when it exceeds summaryMaxRunes.
func firstSentence(text string) string {
	t := strings.Join(strings.Fields(text), " ")
	if t == "" {
		return ""
	}
	head := strings.TrimSpace(strings.SplitN(t, ".", 2)[0])
	if head == "" {
		head = t
	}
	if utf8.RuneCountInString(head) > summaryMaxRunes {
		runes := []rune(head)
		return strings.TrimRight(string(runes[:summaryMaxRunes-1]), " \t\n\r") + "…"
	}
	return head
}

func findingAnchor(position int) string {
	return fmt.Sprintf("finding-%04d", position)
}
