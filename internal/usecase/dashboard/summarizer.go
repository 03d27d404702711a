package dashboard

import (
	"context"
	"strings"
	"text/template"

	domain "allgroub-ledger/internal/domain/dashboard"
)

// Summarizer turns a metrics snapshot into a short narrative.
type Summarizer interface {
	Summarize(ctx context.Context, m domain.Metrics) (string, error)
}

const summaryTemplate = `{{.TotalBorrowers}} borrowers as of {{.At.Format "2006-01-02"}}: ` +
	`{{.RegularLoans}} regular, {{.LateLoans}} late, {{.DefaultedLoans}} defaulted, ` +
	`{{.PaidLoans}} paid, {{.PendingLoans}} pending review.` +
	`{{with .Investor}} Capital {{.TotalCapital.StringFixed 2}} with {{.TotalIdleCapital.StringFixed 2}} idle.{{end}}` +
	`{{with .Manager}} Net profit {{.NetProfit.StringFixed 2}}.{{end}}`

// TemplateSummarizer renders a fixed text template; it never calls out of process.
type TemplateSummarizer struct{ tmpl *template.Template }

func NewTemplateSummarizer() *TemplateSummarizer {
	return &TemplateSummarizer{tmpl: template.Must(template.New("summary").Parse(summaryTemplate))}
}

func (s *TemplateSummarizer) Summarize(ctx context.Context, m domain.Metrics) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := s.tmpl.Execute(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}
