package report

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/joelkehle/homeassess/internal/homeassess"
)

var ErrNoRecipients = errors.New("at least one recipient is required")

// Email is a plaintext assessment summary suitable for a mail client.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func BuildEmail(out homeassess.AssessmentOutput, meta Meta) Email {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\n")
	}
	heading := func(title string) {
		line("")
		line("%s", title)
		line("%s", strings.Repeat("-", len(title)))
	}

	line("Home Safety Assessment Report")
	line("")
	line("Client: %s", meta.ClientName)
	line("Address: %s", meta.ClientAddress)
	line("Date: %s", FormatDate(meta.AssessmentDate))

	heading("SUMMARY")
	line("Overall Safety Score: %s/100", formatScore(out.Summary.OverallSafetyScore))
	line("Critical Issues: %d", out.Summary.CriticalIssuesCount)
	line("Total Recommendations: %d", len(out.Recommendations))
	line("Estimated Cost: %s - %s", FormatCurrency(out.Summary.EstimatedTotalCost.Low), FormatCurrency(out.Summary.EstimatedTotalCost.High))
	if len(out.Summary.TopThreeRecommendations) > 0 {
		line("")
		line("Top 3 Priorities:")
		for i, rec := range out.Summary.TopThreeRecommendations {
			line("%d. %s", i+1, rec)
		}
	}
	line("")
	line("Primary Risk Areas: %s", orDefault(strings.Join(out.Summary.PrimaryRiskAreas, ", "), "None identified"))

	if out.ADL != nil {
		heading("ADL ASSESSMENT")
		line("Independence Level: %s", orDefault(humanize(string(out.ADL.IndependenceLevel)), "Not assessed"))
		line("Total Score: %d", out.ADL.TotalScore)
		line("Activities with Difficulty: %d", out.ADL.TotalDifficulties)
	}
	if out.IADL != nil {
		heading("IADL ASSESSMENT")
		line("Independence Level: %s", orDefault(humanize(string(out.IADL.IndependenceLevel)), "Not assessed"))
		line("Total Score: %d", out.IADL.TotalScore)
		line("Activities with Difficulty: %d", out.IADL.TotalDifficulties)
	}
	if out.FallsRisk != nil {
		heading("FALLS RISK ASSESSMENT")
		line("Overall Risk Level: %s", strings.ToUpper(string(out.FallsRisk.OverallRiskLevel)))
		line("Has Fallen Past Year: %s", yesNo(out.FallsRisk.HasFallenPastYear))
		line("Number of Falls: %d", out.FallsRisk.NumberOfFalls)
	}
	if out.Mobility != nil {
		heading("MOBILITY ASSESSMENT")
		line("Mobility Aids: %s", orDefault(strings.Join(out.Mobility.Aids(), ", "), "None"))
		line("Balance Issues: %s", yesNo(out.Mobility.BalanceIssues))
		line("Gait Issues: %s", yesNo(out.Mobility.GaitIssues))
	}

	line("")
	line("---")
	b.WriteString("This is an automated summary. Download the full PDF report for complete details.")

	return Email{
		Subject: "Home Safety Assessment Report - " + meta.ClientName,
		Body:    b.String(),
	}
}

// MailtoURL builds a mailto link with no recipient, encoding spaces as %20
// so mail clients do not show plus signs.
func MailtoURL(e Email) string {
	enc := func(s string) string {
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	}
	return "mailto:?subject=" + enc(e.Subject) + "&body=" + enc(e.Body)
}

type EmailSender interface {
	Send(ctx context.Context, to []string, e Email) (string, error)
}

// ResendSender delivers assessment summaries through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from, logger: logger}
}

// Send returns the Resend message id.
func (s *ResendSender) Send(ctx context.Context, to []string, e Email) (string, error) {
	if len(to) == 0 {
		return "", ErrNoRecipients
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      to,
		Subject: e.Subject,
		Text:    e.Body,
		Html:    "<pre style=\"font-family:inherit\">" + html.EscapeString(e.Body) + "</pre>",
	}
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error("resend send failed", zap.Error(err), zap.Strings("to", to), zap.String("subject", e.Subject))
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	s.logger.Info("assessment email sent", zap.String("message_id", sent.Id), zap.Int("recipients", len(to)))
	return sent.Id, nil
}
