package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"pinboard/internal/canvas"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// notesText joins the text of notes in paint order, one blank line apart.
func notesText(notes []canvas.Note, ids []string) string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var parts []string
	for _, n := range notes {
		if want[n.ID] {
			parts = append(parts, n.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

// cleanClipboardText turns whatever the clipboard held into plain note text.
func cleanClipboardText(text string) string {
	switch {
	case text == "":
		return text
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// stripRTF drops groups markers and control words, keeping escaped
// literals and turning \par and \line into newlines.
func stripRTF(text string) string {
	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{':
			if isRTFDestination(runes[i+1:]) {
				i = skipRTFGroup(runes, i)
			}
			continue
		case '}':
			continue
		case '\\':
		default:
			result.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]
		if next == '\\' || next == '{' || next == '}' {
			result.WriteRune(next)
			i++
			continue
		}
		if !isASCIILetter(next) {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && isASCIILetter(runes[j]) {
			j++
		}
		word := string(runes[i+1 : j])
		for j < len(runes) && (runes[j] == '-' || (runes[j] >= '0' && runes[j] <= '9')) {
			j++
		}
		if j < len(runes) && runes[j] == ' ' {
			j++
		}
		switch word {
		case "par", "line":
			result.WriteByte('\n')
		case "tab":
			result.WriteByte('\t')
		}
		i = j - 1
	}
	return result.String()
}

// Groups holding fonts, colours, styles or metadata carry no visible text.
var rtfDestinations = []string{`\*`, `\fonttbl`, `\colortbl`, `\stylesheet`, `\info`}

func isRTFDestination(rest []rune) bool {
	s := string(rest[:min(len(rest), 12)])
	for _, d := range rtfDestinations {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}

// skipRTFGroup returns the index of the brace closing the group opened at start.
func skipRTFGroup(runes []rune, start int) int {
	depth := 0
	for i := start; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(runes) - 1
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
)

func extractTextFromHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return htmlEntities.Replace(result.String())
}
