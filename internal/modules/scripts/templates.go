package scripts

import (
	"fmt"
	"strings"
)

// angleTemplate is one deterministic script shape. The fallback generator
// cycles through these when the generation backend is unavailable, so a
// batch of n still yields n distinct candidates.
type angleTemplate struct {
	Label string
	Build func(topic, audience string) []string
}

func angleTemplates() []angleTemplate {
	return []angleTemplate{
		{
			Label: "Myth-bust",
			Build: func(topic, audience string) []string {
				return []string{
					fmt.Sprintf("Most %s get %s completely wrong.", audienceOr(audience, "people"), topic),
					fmt.Sprintf("The common advice on %s sounds right, but it quietly costs you results.", topic),
					"Here's what actually moves the needle, in three steps.",
					"Step one: cut the part everyone says is essential.",
					"Step two: double down on the one thing nobody measures.",
					"Step three: test it for a week before you trust anyone's opinion, including mine.",
					fmt.Sprintf("Comment your biggest %s struggle and I'll cover it next.", topic),
				}
			},
		},
		{
			Label: "Listicle",
			Build: func(topic, audience string) []string {
				return []string{
					fmt.Sprintf("3 mistakes that are killing your %s.", topic),
					"Number one: starting without a plan and hoping volume saves you.",
					"Number two: copying what worked for someone with a different audience.",
					"Number three: quitting right before the compounding kicks in.",
					"Fix just one of these this week and you'll feel the difference.",
					"Save this so you can check yourself next time.",
				}
			},
		},
		{
			Label: "Story",
			Build: func(topic, audience string) []string {
				return []string{
					fmt.Sprintf("I almost gave up on %s until one change fixed everything.", topic),
					"Six months of effort, nothing to show for it.",
					"Then I stopped following the playbook and watched what my own numbers said.",
					"One small change, and the next attempt outperformed everything before it.",
					"The lesson: your data beats anyone's template.",
					"Follow for the full breakdown of what I changed.",
				}
			},
		},
		{
			Label: "Contrarian",
			Build: func(topic, audience string) []string {
				return []string{
					fmt.Sprintf("Stop working harder at %s. It's the wrong lever.", topic),
					"Effort isn't your bottleneck, attention is.",
					fmt.Sprintf("The %s who win spend less time producing and more time studying what lands.", audienceOr(audience, "creators")),
					"Spend 20 minutes reviewing before you spend two hours producing.",
					"Share this with someone still grinding the wrong lever.",
				}
			},
		},
		{
			Label: "Checklist",
			Build: func(topic, audience string) []string {
				return []string{
					fmt.Sprintf("Before you post anything about %s, run this 30-second checklist.", topic),
					"Does the first line earn the second line? If not, rewrite it.",
					"Is there one concrete number or example? Vague content gets vague results.",
					"Is there exactly one ask at the end, not three?",
					"If you checked all three, post it. If not, you just saved yourself a flop.",
					"Save this checklist for your next draft.",
				}
			},
		},
		{
			Label: "Question",
			Build: func(topic, audience string) []string {
				return []string{
					fmt.Sprintf("Why does %s work for everyone except you?", topic),
					"It's probably not talent, and it's probably not the algorithm.",
					"It's usually one invisible mistake in the first three seconds.",
					"Watch your last three attempts and count how long before you make the point.",
					"If it's more than five seconds, you found your problem.",
					"Comment 'fix' and I'll share the rewrite that solved it for me.",
				}
			},
		},
	}
}

// templateScript renders the i-th fallback candidate for a topic. Distinct
// indices always produce distinct texts: past the bank's size, a variation
// tag keeps the hooks from colliding.
func templateScript(topic, audience string, i int) (label, text string) {
	bank := angleTemplates()
	tpl := bank[i%len(bank)]
	lines := tpl.Build(strings.TrimSpace(topic), strings.TrimSpace(audience))
	if round := i / len(bank); round > 0 {
		lines[0] = fmt.Sprintf("%s (take %d)", lines[0], round+1)
	}
	return tpl.Label, strings.Join(lines, "\n")
}

// naiveScript is the no-template baseline used to estimate expected lift.
func naiveScript(topic string) string {
	return fmt.Sprintf("Today I want to talk about %s.", strings.TrimSpace(topic))
}

func audienceOr(audience, fallback string) string {
	a := strings.TrimSpace(audience)
	if a == "" {
		return fallback
	}
	return a
}
