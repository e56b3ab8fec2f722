package assemble

import (
	"strings"

	"github.com/quizforge/quizforge/internal/domain"
)

const (
	fullChoiceCount  = 5
	placeholderNote  = "Placeholder choice added to meet schema."
	defaultRationale = "This option is (in)correct based on the supplied context."
)

// normalizeChoicesAndMeta repairs per-type constraints in place:
// MCQ/MSQ get exactly five choices relabeled A-E with rationales, MCQ ends
// with exactly one correct choice, MSQ with two or three, TF keeps shuffle
// off. Difficulty is clamped to 1-3.
func normalizeChoicesAndMeta(it Item) {
	it["difficulty"] = clamp(intOr(it["difficulty"], 2), 1, 3)

	qtype := strings.ToLower(str(it, "type"))
	switch qtype {
	case domain.TypeMCQ, domain.TypeMSQ:
		choices := itemList(list(it, "choices"))
		choices = padOrTrimChoices(choices)
		relabelAndEnsureRationales(choices)
		if qtype == domain.TypeMSQ {
			repairMSQCorrectCount(choices)
		} else {
			repairMCQCorrectCount(choices)
		}
		it["choices"] = choices
	case domain.TypeTF:
		it["shuffle"] = false
	}
}

func padOrTrimChoices(choices []Item) []Item {
	for len(choices) < fullChoiceCount {
		label := string(rune('A' + len(choices)))
		choices = append(choices, Item{
			"id":             label,
			"text_rich":      []any{domain.Paragraph("Option " + label)},
			"is_correct":     false,
			"rationale_rich": []any{domain.Paragraph(placeholderNote)},
		})
	}
	if len(choices) > fullChoiceCount {
		choices = choices[:fullChoiceCount]
	}
	return choices
}

func relabelAndEnsureRationales(choices []Item) {
	for i, c := range choices {
		c["id"] = string(rune('A' + i))
		if len(list(c, "rationale_rich")) == 0 {
			c["rationale_rich"] = []any{domain.Paragraph(defaultRationale)}
		}
	}
}

// repairMSQCorrectCount promotes incorrect choices until at least two are
// correct, then demotes extras beyond three in order.
func repairMSQCorrectCount(choices []Item) {
	correct := correctIndices(choices)
	if len(correct) < 2 {
		for i, c := range choices {
			if !boolOr(c, "is_correct", false) {
				c["is_correct"] = true
				correct = append(correct, i)
				if len(correct) >= 2 {
					break
				}
			}
		}
	}
	if len(correct) > 3 {
		for _, i := range correct[3:] {
			choices[i]["is_correct"] = false
		}
	}
}

// repairMCQCorrectCount keeps the first correct choice and clears the rest;
// with none marked, the first choice wins.
func repairMCQCorrectCount(choices []Item) {
	correct := correctIndices(choices)
	switch {
	case len(correct) == 0:
		if len(choices) > 0 {
			choices[0]["is_correct"] = true
		}
	case len(correct) > 1:
		for _, i := range correct[1:] {
			choices[i]["is_correct"] = false
		}
	}
}

func correctIndices(choices []Item) []int {
	var out []int
	for i, c := range choices {
		if boolOr(c, "is_correct", false) {
			out = append(out, i)
		}
	}
	return out
}

// canonicalizeTFWording replaces TF choice text with the canonical "True"
// and "False" labels, matching loosely against the model's wording.
func canonicalizeTFWording(it Item) {
	if strings.ToLower(str(it, "type")) != domain.TypeTF {
		return
	}
	for _, c := range itemList(list(it, "choices")) {
		joined := strings.ToLower(strings.TrimSpace(
			strings.Join(domain.GatherText(richBlocks(list(c, "text_rich"))), " "),
		))
		switch {
		case strings.Contains(joined, "true"):
			c["text_rich"] = []any{domain.Paragraph("True")}
		case strings.Contains(joined, "false"):
			c["text_rich"] = []any{domain.Paragraph("False")}
		}
	}
}

// ensureHints pads hints to the 2-3 range with generic study tips.
func ensureHints(it Item) {
	hints := list(it, "hints_rich")
	if len(hints) < 2 {
		defaults := []any{
			domain.TipCallout("Re-read the context and focus on key terms."),
			domain.TipCallout("Eliminate distractors that contradict definitions in the text."),
		}
		hints = append(hints, defaults...)
		hints = hints[:2]
	}
	if len(hints) > 3 {
		hints = hints[:3]
	}
	it["hints_rich"] = hints
}

func richBlocks(v []any) []domain.Rich {
	out := make([]domain.Rich, 0, len(v))
	for _, e := range v {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
