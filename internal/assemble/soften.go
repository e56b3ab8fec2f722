package assemble

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/quizforge/quizforge/internal/domain"
)

const leakReplacement = "this concept"

// contextLeaks returns the flattened text of every correct choice that
// appears verbatim inside the question's context. The scan is bounded to the
// first scanChars bytes of the marshaled context.
func contextLeaks(it Item, scanChars int) []string {
	ctxRaw, err := json.Marshal(it["context_rich"])
	if err != nil {
		return nil
	}
	scan := strings.ToLower(string(ctxRaw))
	if scanChars > 0 && len(scan) > scanChars {
		scan = scan[:scanChars]
	}

	var leaks []string
	for _, c := range itemList(list(it, "choices")) {
		if !boolOr(c, "is_correct", false) {
			continue
		}
		plain := strings.ToLower(strings.TrimSpace(
			strings.Join(domain.GatherText(richBlocks(list(c, "text_rich"))), " "),
		))
		if plain != "" && strings.Contains(scan, plain) {
			leaks = append(leaks, plain)
		}
	}
	return leaks
}

// softenContext rewrites leaked answer strings inside the context to a
// neutral phrase. The replacement is applied to the marshaled context JSON
// case-insensitively; if the result no longer decodes, the original context
// is kept and validation decides the item's fate.
func softenContext(it Item, scanChars int) {
	leaks := contextLeaks(it, scanChars)
	if len(leaks) == 0 {
		return
	}

	ctxRaw, err := json.Marshal(it["context_rich"])
	if err != nil {
		return
	}
	softened := string(ctxRaw)
	for _, leak := range leaks {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(leak))
		if err != nil {
			continue
		}
		softened = re.ReplaceAllString(softened, leakReplacement)
	}

	var ctx any
	if err := json.Unmarshal([]byte(softened), &ctx); err != nil {
		return
	}
	it["context_rich"] = ctx
}
