package detect

import "strings"

// Line targeting for edit suggestions. Each helper either points at one
// line with confidence or reports no target; callers never guess.

// FillerLine returns the line carrying the most filler terms.
func FillerLine(doc Doc) (Line, bool) {
	best := Line{}
	bestCount := 0
	for _, ln := range doc.Lines {
		if n := countAny(ln.Text, clarityFillerTerms); n > bestCount {
			best = ln
			bestCount = n
		}
	}
	return best, bestCount > 0
}

// VagueLine returns the first line using a vague quantifier with no
// concrete figure of its own.
func VagueLine(doc Doc) (Line, bool) {
	for _, ln := range doc.Lines {
		if countAny(ln.Text, specVagueTerms) > 0 && !specNumberRe.MatchString(ln.Text) {
			return ln, true
		}
	}
	return Line{}, false
}

// LongestLine returns the wordiest line when it is long enough to be worth
// splitting.
func LongestLine(doc Doc) (Line, bool) {
	best := Line{}
	bestWords := 0
	for _, ln := range doc.Lines {
		if n := len(lineWords(ln.Text)); n > bestWords {
			best = ln
			bestWords = n
		}
	}
	return best, bestWords >= 20
}

// HasClosingCTA reports whether the final lines already carry an ask.
func HasClosingCTA(doc Doc) bool {
	if len(doc.Lines) == 0 {
		return false
	}
	_, ok := containsAny(closingText(doc), ctaVerbs)
	return ok
}

// StripFillers removes filler terms from a line, collapsing the spacing
// they leave behind.
func StripFillers(text string) string {
	out := text
	for _, term := range clarityFillerTerms {
		for {
			idx := strings.Index(strings.ToLower(out), term)
			if idx < 0 {
				break
			}
			out = out[:idx] + out[idx+len(term):]
		}
	}
	return strings.Join(strings.Fields(out), " ")
}
