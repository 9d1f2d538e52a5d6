package detect

import (
	"regexp"
	"strings"
)

// Line is one non-empty script line. Number is the 1-based position in the
// submitted text, counting blank lines, so edit targets stay stable.
type Line struct {
	Number int
	Text   string
}

// Doc is the shared pre-parse of a script. Built once per evaluation and
// handed to every detector.
type Doc struct {
	Raw       string
	Lines     []Line
	Sentences []string
	Words     []string
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
var wordRe = regexp.MustCompile(`[A-Za-z0-9']+`)

func BuildDoc(raw string) Doc {
	doc := Doc{Raw: raw}
	for i, ln := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" {
			continue
		}
		doc.Lines = append(doc.Lines, Line{Number: i + 1, Text: trimmed})
	}
	for _, s := range sentenceSplitRe.Split(raw, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			doc.Sentences = append(doc.Sentences, s)
		}
	}
	doc.Words = wordRe.FindAllString(strings.ToLower(raw), -1)
	return doc
}

func (d Doc) WordCount() int { return len(d.Words) }

func (d Doc) FirstLine() (Line, bool) {
	if len(d.Lines) == 0 {
		return Line{}, false
	}
	return d.Lines[0], true
}

func (d Doc) LastLine() (Line, bool) {
	if len(d.Lines) == 0 {
		return Line{}, false
	}
	return d.Lines[len(d.Lines)-1], true
}

// MiddleLines returns everything between the hook and the closing line.
func (d Doc) MiddleLines() []Line {
	if len(d.Lines) <= 2 {
		return nil
	}
	return d.Lines[1 : len(d.Lines)-1]
}

func lineWords(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

func containsAny(text string, terms []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return t, true
		}
	}
	return "", false
}

func countAny(text string, terms []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, t := range terms {
		n += strings.Count(lower, t)
	}
	return n
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
