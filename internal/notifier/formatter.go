package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"BuySignal/internal/model"
	"BuySignal/internal/report"
)

var severityIcon = map[string]string{
	string(model.SeveritySuccess): "🟢",
	string(model.SeverityInfo):    "🟠",
	string(model.SeverityWarning): "🟡",
	string(model.SeverityError):   "🔴",
}

var labelIcon = map[string]string{
	string(model.LabelFear):    "😨",
	string(model.LabelGreed):   "😎",
	string(model.LabelNeutral): "😐",
}

// FormatReport formats an evaluation report into a Telegram HTML message.
func FormatReport(r *report.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s buy signal</b> | %s\n\n", html.EscapeString(r.Symbol), r.EvaluatedAt.Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("%s Fear &amp; Greed: <b>%s/100</b> (%s)\n\n", labelIcon[r.SentimentLabel], r.SentimentScore, r.SentimentLabel))

	b.WriteString(fmt.Sprintf("Current price: %s\n", r.CurrentPrice))
	b.WriteString(fmt.Sprintf("%d-day average: %s\n", r.AverageWindow, r.TrailingAverage))
	b.WriteString(fmt.Sprintf("12-month low: %s\n\n", r.TrailingMinimum))

	b.WriteString(fmt.Sprintf("%s <b>Score %d/3:</b> %s\n", severityIcon[r.Severity], r.Score, html.EscapeString(r.Recommendation)))

	for _, w := range r.Warnings {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", html.EscapeString(w)))
	}
	return b.String()
}

// FormatSelection lists the stored questionnaire answers.
func FormatSelection(sel model.Selection, updated time.Time) string {
	var b strings.Builder
	b.WriteString("📝 <b>Stored sentiment</b>\n\n")
	for _, ind := range model.Indicators() {
		b.WriteString(fmt.Sprintf("%s: %s\n", html.EscapeString(ind.String()), sel.Get(ind)))
	}
	if !updated.IsZero() {
		b.WriteString(fmt.Sprintf("\nUpdated: %s", updated.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatError formats a failed evaluation.
func FormatError(err error) string {
	return fmt.Sprintf("❌ <b>Evaluation failed</b>\n\n%s", html.EscapeString(err.Error()))
}
