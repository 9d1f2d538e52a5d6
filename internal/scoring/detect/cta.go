package detect

import (
	"fmt"
	"strings"
)

var (
	ctaVerbs = []string{
		"follow", "subscribe", "comment", "share", "save", "like",
		"try", "grab", "download", "dm ", "link in bio", "check out",
	}
	ctaSpecificAsks = []string{
		"comment your", "comment below with", "share this with", "save this for",
		"tag someone", "send this to",
	}
)

func ctaStrength() Detector {
	return Detector{
		Key:             "cta_strength",
		Label:           "Call-to-action strength",
		Priority:        5,
		Floor:           30,
		ActionThreshold: 70,
		Evaluate:        evalCTA,
	}
}

func evalCTA(doc Doc, c Constraints) Result {
	if len(doc.Lines) == 0 {
		return Result{Score: 0, Evidence: []string{"script has no lines"}}
	}

	closing := closingText(doc)
	verb, hasClose := containsAny(closing, ctaVerbs)
	if !hasClose {
		evidence := []string{"no call to action in the closing lines"}
		if _, early := containsAny(doc.Raw, ctaVerbs); early {
			evidence = append(evidence, "an ask appears earlier but the close lets the viewer drift away")
			return Result{Score: 45, Evidence: evidence}
		}
		return Result{Score: 35, Evidence: evidence}
	}

	score := 70.0
	evidence := []string{fmt.Sprintf("closing ask built on %q", strings.TrimSpace(verb))}

	if ask, ok := containsAny(closing, ctaSpecificAsks); ok {
		score += 8
		evidence = append(evidence, fmt.Sprintf("specific ask: %q", ask))
	}

	if note := ctaPlatformNote(c.Platform, closing); note != "" {
		score -= 4
		evidence = append(evidence, note)
	}

	if distinctVerbs(closing) >= 3 {
		score -= 8
		evidence = append(evidence, "stacked asks dilute the close; pick one")
	}

	return Result{Score: clampScore(score), Evidence: evidence}
}

func closingText(doc Doc) string {
	n := len(doc.Lines)
	if n == 1 {
		return doc.Lines[0].Text
	}
	return doc.Lines[n-2].Text + " " + doc.Lines[n-1].Text
}

func distinctVerbs(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, v := range ctaVerbs {
		if strings.Contains(lower, v) {
			n++
		}
	}
	return n
}

// ctaPlatformNote flags asks that read wrong for the declared platform.
// Unknown platforms get no note.
func ctaPlatformNote(platform, closing string) string {
	lower := strings.ToLower(closing)
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "tiktok", "instagram_reels":
		if strings.Contains(lower, "subscribe") {
			return "\"subscribe\" reads off-platform here; \"follow\" converts better"
		}
	case "youtube_shorts":
		if strings.Contains(lower, "link in bio") {
			return "\"link in bio\" is not a thing on this platform"
		}
	}
	return ""
}
