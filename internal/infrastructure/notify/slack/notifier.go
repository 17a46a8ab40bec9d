package slack

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
	slackapi "github.com/slack-go/slack"
	"github.com/valyala/bytebufferpool"
)

const reportDateLayout = "02 Jan 2006 15:04"

var statusColors = map[usecase.Status]string{
	usecase.StatusSuccess:      "#2eb886",
	usecase.StatusSkipped:      "#daa038",
	usecase.StatusFailed:       "#a30200",
	usecase.StatusServiceError: "#a30200",
	usecase.StatusConfigError:  "#a30200",
}

type NotifierConfig struct {
	WebhookURL string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Notifier posts ingestion reports to a Slack incoming webhook. Without a
// webhook URL it only logs.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     *logging.Logger
}

func NewNotifier(cfg NotifierConfig, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Notifier{
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		client:     client,
		logger:     logger,
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

func (n *Notifier) Notify(ctx context.Context, report usecase.Report) error {
	if !n.Enabled() {
		n.logger.DebugContext(ctx, "slack webhook not configured, report not sent", "status", report.Status)
		return nil
	}

	msg := BuildMessage(report)
	if err := slackapi.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.client, msg); err != nil {
		return crerr.Wrap(err, "post slack webhook")
	}
	n.logger.InfoContext(ctx, "ingestion report sent to slack", "status", report.Status)
	return nil
}

// BuildMessage renders a report as one colored attachment.
func BuildMessage(report usecase.Report) *slackapi.WebhookMessage {
	title := report.Title
	if title == "" {
		title = report.Status.Title()
	}

	fields := []*slackapi.TextBlockObject{
		markdown("*Current DB rows*\n" + strconv.Itoa(report.CurrentRows)),
		markdown("*New CSV rows*\n" + strconv.Itoa(report.NewRows)),
	}
	if report.Subject != "" {
		fields = append(fields, markdown("*Email*\n"+report.Subject))
	}
	if !report.ReceivedAt.IsZero() {
		fields = append(fields, markdown("*Received*\n"+report.ReceivedAt.Format(reportDateLayout)))
	}

	blocks := []slackapi.Block{
		slackapi.NewHeaderBlock(slackapi.NewTextBlockObject(slackapi.PlainTextType, title, true, false)),
		slackapi.NewSectionBlock(markdown(report.Description), fields, nil),
	}
	if len(report.CreatedTeams) > 0 {
		blocks = append(blocks, slackapi.NewSectionBlock(markdown(createdTeamsText(report)), nil, nil))
	}
	if len(report.RowErrors) > 0 {
		blocks = append(blocks, slackapi.NewSectionBlock(markdown(rowErrorsText(report)), nil, nil))
	}
	if report.DatasetMayBeEmpty {
		blocks = append(blocks, slackapi.NewSectionBlock(markdown(":warning: *The matches table may be empty.*"), nil, nil))
	}

	return &slackapi.WebhookMessage{
		Text: fmt.Sprintf("%s: %s", title, report.Description),
		Attachments: []slackapi.Attachment{{
			Color:  statusColors[report.Status],
			Blocks: slackapi.Blocks{BlockSet: blocks},
		}},
	}
}

func createdTeamsText(report usecase.Report) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("*New teams created*")
	for _, name := range report.CreatedTeams {
		_, _ = buf.WriteString("\n• ")
		_, _ = buf.WriteString(name)
	}
	if report.CreatedTeamsOverflow > 0 {
		_, _ = fmt.Fprintf(buf, "\n…and %d more", report.CreatedTeamsOverflow)
	}
	return buf.String()
}

func rowErrorsText(report usecase.Report) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("*Validation errors*")
	for _, rowErr := range report.RowErrors {
		_, _ = buf.WriteString("\n• ")
		_, _ = buf.WriteString(rowErr.String())
	}
	if report.RowErrorsOverflow > 0 {
		_, _ = fmt.Fprintf(buf, "\n…and %d more", report.RowErrorsOverflow)
	}
	return buf.String()
}

func markdown(text string) *slackapi.TextBlockObject {
	return slackapi.NewTextBlockObject(slackapi.MarkdownType, text, false, false)
}
