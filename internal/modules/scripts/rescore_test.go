package scripts

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const weakScript = "So basically today I just kind of want to maybe talk about some stuff that might help a lot of you guys with various things you could possibly try at some point, and honestly there are many ways to think about it."

const strongScript = `Stop saving money. You're losing 7% a year to inflation doing it.
I tracked 90 days of my own spending and found $412 of pure waste.
Here's the question nobody asks: what does each subscription actually return?
Cut the bottom 3 and move that $87 a month into an index fund.
In 10 years that's $14,900 at 7%.
Comment "audit" and I'll send you the exact spreadsheet I used.`

func TestRescore_Validation(t *testing.T) {
	u := newTestUsecases(t, nil)
	ctx := context.Background()

	if _, err := u.Rescore(ctx, RescoreInput{ScriptText: "x"}); err == nil {
		t.Fatalf("expected unauthorized")
	}
	if _, err := u.Rescore(ctx, RescoreInput{UserID: uuid.New(), ScriptText: "  \n "}); err == nil {
		t.Fatalf("expected empty_script_text")
	}
	if _, err := u.Rescore(ctx, RescoreInput{UserID: uuid.New(), ScriptText: "x", DurationSeconds: -1}); err == nil {
		t.Fatalf("expected invalid_duration")
	}
}

func TestRescore_WeakScriptGetsActionsAndEdits(t *testing.T) {
	u := newTestUsecases(t, nil)

	out, err := u.Rescore(context.Background(), RescoreInput{
		UserID:     uuid.New(),
		Platform:   "tiktok",
		ScriptText: weakScript,
	})
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}

	if len(out.DetectorRankings) != 7 {
		t.Fatalf("expected all 7 detectors, got %d", len(out.DetectorRankings))
	}
	if len(out.NextActions) == 0 {
		t.Fatalf("a filler-heavy one-liner must trigger next actions")
	}
	if len(out.LineLevelEdits) == 0 {
		t.Fatalf("expected at least one line edit for a weak script")
	}
	for _, e := range out.LineLevelEdits {
		if e.LineNumber < 1 {
			t.Fatalf("line numbers are 1-based, got %d", e.LineNumber)
		}
		if e.SuggestedLine == "" {
			t.Fatalf("edit for %s has no suggested line", e.DetectorKey)
		}
	}
	for i := 1; i < len(out.LineLevelEdits); i++ {
		if out.LineLevelEdits[i].LineNumber < out.LineLevelEdits[i-1].LineNumber {
			t.Fatalf("edits must be ordered by line number")
		}
	}
}

func TestRescore_StrongScriptOutscoresWeak(t *testing.T) {
	u := newTestUsecases(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	weak, err := u.Rescore(ctx, RescoreInput{UserID: userID, Platform: "tiktok", ScriptText: weakScript})
	if err != nil {
		t.Fatalf("Rescore weak: %v", err)
	}
	strong, err := u.Rescore(ctx, RescoreInput{UserID: userID, Platform: "tiktok", ScriptText: strongScript})
	if err != nil {
		t.Fatalf("Rescore strong: %v", err)
	}
	if strong.ScoreBreakdown.Combined <= weak.ScoreBreakdown.Combined {
		t.Fatalf("strong script (%.1f) should outscore weak (%.1f)",
			strong.ScoreBreakdown.Combined, weak.ScoreBreakdown.Combined)
	}
	if len(strong.NextActions) >= len(weak.NextActions) && len(weak.NextActions) > 0 {
		t.Fatalf("strong script should trigger fewer actions: %d vs %d",
			len(strong.NextActions), len(weak.NextActions))
	}
}

func TestRescore_BaselineDelta(t *testing.T) {
	u := newTestUsecases(t, nil)
	baseline := 40.0

	out, err := u.Rescore(context.Background(), RescoreInput{
		UserID:        uuid.New(),
		Platform:      "tiktok",
		ScriptText:    strongScript,
		BaselineScore: &baseline,
	})
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	if out.ScoreBreakdown.DeltaFromBaseline == nil {
		t.Fatalf("expected delta_from_baseline with a baseline supplied")
	}
	want := out.ScoreBreakdown.Combined - baseline
	if *out.ScoreBreakdown.DeltaFromBaseline != want {
		t.Fatalf("delta %.2f, want %.2f", *out.ScoreBreakdown.DeltaFromBaseline, want)
	}

	noBase, err := u.Rescore(context.Background(), RescoreInput{
		UserID:     uuid.New(),
		Platform:   "tiktok",
		ScriptText: strongScript,
	})
	if err != nil {
		t.Fatalf("Rescore without baseline: %v", err)
	}
	if noBase.ScoreBreakdown.DeltaFromBaseline != nil {
		t.Fatalf("no baseline must mean no delta, got %v", *noBase.ScoreBreakdown.DeltaFromBaseline)
	}
}

func TestRescore_RemovingHookDropsScore(t *testing.T) {
	u := newTestUsecases(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	before, err := u.Rescore(ctx, RescoreInput{UserID: userID, Platform: "tiktok", ScriptText: strongScript})
	if err != nil {
		t.Fatalf("Rescore before: %v", err)
	}

	// Drop the opening hook line and use the previous combined score as
	// the baseline for the edited draft.
	lines := strings.SplitN(strongScript, "\n", 2)
	baseline := before.ScoreBreakdown.Combined
	after, err := u.Rescore(ctx, RescoreInput{
		UserID:        userID,
		Platform:      "tiktok",
		ScriptText:    lines[1],
		BaselineScore: &baseline,
	})
	if err != nil {
		t.Fatalf("Rescore after: %v", err)
	}

	if after.ScoreBreakdown.DeltaFromBaseline == nil || *after.ScoreBreakdown.DeltaFromBaseline >= 0 {
		t.Fatalf("removing the hook must score below the baseline, delta=%v", after.ScoreBreakdown.DeltaFromBaseline)
	}
	foundHookAction := false
	for _, a := range after.NextActions {
		if a.DetectorKey == "hook_strength" {
			foundHookAction = true
		}
	}
	if !foundHookAction {
		t.Fatalf("expected a hook_strength next action after losing the hook, got %+v", after.NextActions)
	}
}

func TestRescore_HookEditTargetsFirstLine(t *testing.T) {
	u := newTestUsecases(t, nil)

	// A mushy opener with decent structure elsewhere keeps hook_strength as
	// the weak dimension.
	script := "So anyway I guess we could chat about budgets or whatever today.\n" +
		"Track your spending for 30 days and sort it into 5 buckets.\n" +
		"The top bucket is usually 40% of the waste.\n" +
		"Comment below with your top bucket and I'll reply with a fix."

	out, err := u.Rescore(context.Background(), RescoreInput{
		UserID:     uuid.New(),
		Platform:   "tiktok",
		ScriptText: script,
	})
	if err != nil {
		t.Fatalf("Rescore: %v", err)
	}
	var hookEdit *LineEdit
	for i := range out.LineLevelEdits {
		if out.LineLevelEdits[i].DetectorKey == "hook_strength" {
			hookEdit = &out.LineLevelEdits[i]
			break
		}
	}
	if hookEdit == nil {
		t.Fatalf("expected a hook edit, got %+v", out.LineLevelEdits)
	}
	if hookEdit.LineNumber != 1 {
		t.Fatalf("hook edit must target line 1, got %d", hookEdit.LineNumber)
	}
	if !strings.Contains(hookEdit.SuggestedLine, "nobody tells you") {
		t.Fatalf("unexpected hook suggestion %q", hookEdit.SuggestedLine)
	}
}
