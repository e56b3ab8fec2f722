package batch

import (
	"log/slog"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/quizforge/quizforge/internal/platform/logger"
)

const errorSampleLimit = 5

type errorGroup struct {
	code    string
	param   string
	message string
	count   int
	samples []string
}

// SummarizeErrors logs a compact histogram of an error artifact, grouped by
// error code and parameter with example custom ids, so an operator can find
// the root cause before resubmitting.
func SummarizeErrors(log *slog.Logger, data []byte) {
	groups := make(map[[2]string]*errorGroup)

	for _, rec := range SplitRecords(data) {
		line := string(rec.Line)
		errObj := gjson.Get(line, "response.body.error")
		if !errObj.Exists() {
			errObj = gjson.Get(line, "error")
		}
		code := errObj.Get("code").String()
		param := errObj.Get("param").String()
		msg := errObj.Get("message").String()

		key := [2]string{code, param}
		g, ok := groups[key]
		if !ok {
			g = &errorGroup{code: code, param: param, message: msg}
			groups[key] = g
		}
		g.count++
		if len(g.samples) < errorSampleLimit {
			g.samples = append(g.samples, logger.Redact(rec.CustomID))
		}
	}

	ordered := make([]*errorGroup, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].count > ordered[j].count })

	for _, g := range ordered {
		log.Error("batch error group",
			"count", g.count,
			"code", orDash(g.code),
			"param", orDash(g.param),
			"message", logger.Preview(g.message, 160),
			"sample_ids", g.samples)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
