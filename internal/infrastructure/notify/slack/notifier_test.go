package slack

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
)

func sampleReport() usecase.Report {
	return usecase.Report{
		Subject:              "Corporate League Results",
		ReceivedAt:           time.Date(2026, 1, 14, 6, 0, 0, 0, time.UTC),
		CurrentRows:          27,
		NewRows:              30,
		CreatedTeams:         []string{"A", "B", "C", "D", "E"},
		CreatedTeamsOverflow: 2,
		RowErrors:            []usecase.RowError{{Line: 4, Message: "Division not found: Z9"}},
		Status:               usecase.StatusSuccess,
		Title:                usecase.StatusSuccess.Title(),
		Description:          "replaced 27 stored matches with 30 new matches",
	}
}

func TestNotifier_PostsWebhook(t *testing.T) {
	t.Parallel()

	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier := NewNotifier(NotifierConfig{WebhookURL: srv.URL, HTTPClient: srv.Client()}, logging.NewNop())
	if err := notifier.Notify(context.Background(), sampleReport()); err != nil {
		t.Fatalf("notify: %v", err)
	}

	var payload map[string]any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	text, _ := payload["text"].(string)
	if !strings.HasPrefix(text, "Ingestion Complete") {
		t.Fatalf("unexpected text: %q", text)
	}
	if !strings.Contains(string(body), "and 2 more") || !strings.Contains(string(body), "Row 4: Division not found: Z9") {
		t.Fatalf("expected capped lists in payload: %s", body)
	}
}

func TestNotifier_WebhookFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier := NewNotifier(NotifierConfig{WebhookURL: srv.URL, HTTPClient: srv.Client()}, logging.NewNop())
	if err := notifier.Notify(context.Background(), sampleReport()); err == nil {
		t.Fatalf("expected webhook error")
	}
}

func TestNotifier_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	notifier := NewNotifier(NotifierConfig{}, logging.NewNop())
	if notifier.Enabled() {
		t.Fatalf("expected disabled notifier")
	}
	if err := notifier.Notify(context.Background(), sampleReport()); err != nil {
		t.Fatalf("disabled notify: %v", err)
	}
}

func TestBuildMessage_EmptyDatasetWarning(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Status = usecase.StatusFailed
	report.Title = ""
	report.DatasetMayBeEmpty = true

	msg := BuildMessage(report)
	if !strings.HasPrefix(msg.Text, "Ingestion Failed") {
		t.Fatalf("unexpected text: %q", msg.Text)
	}
	if msg.Attachments[0].Color != "#a30200" {
		t.Fatalf("unexpected color: %q", msg.Attachments[0].Color)
	}
	if got := len(msg.Attachments[0].Blocks.BlockSet); got != 5 {
		t.Fatalf("expected 5 blocks, got %d", got)
	}
}
