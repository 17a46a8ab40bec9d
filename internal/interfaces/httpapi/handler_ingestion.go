package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
)

const defaultAttachmentName = "upload.csv"

// IngestMatches runs one ingestion over the uploaded attachment. The report
// carries the outcome, so every finished run answers 200.
func (h *Handler) IngestMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatches")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	src, err := h.readIngestionSource(ctx, r)
	if err != nil {
		h.logger.WarnContext(ctx, "read ingestion upload failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	report, err := h.ingestionService.Run(ctx, src)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest matches rejected", "attachment", src.Attachment, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(report))
}

func (h *Handler) readIngestionSource(ctx context.Context, r *http.Request) (usecase.Source, error) {
	req := ingestMatchesRequest{
		Subject:    strings.TrimSpace(r.URL.Query().Get("subject")),
		ReceivedAt: strings.TrimSpace(r.URL.Query().Get("received_at")),
		Attachment: strings.TrimSpace(r.URL.Query().Get("attachment")),
	}

	var (
		data []byte
		err  error
	)
	if isMultipart(r.Header.Get("Content-Type")) {
		data, err = h.readMultipartFile(r, &req)
	} else {
		data, err = io.ReadAll(r.Body)
	}
	if err != nil {
		return usecase.Source{}, uploadError(err, h.maxUploadBytes)
	}
	if len(data) == 0 {
		return usecase.Source{}, fmt.Errorf("%w: attachment is empty", usecase.ErrInvalidInput)
	}

	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.Source{}, err
	}
	receivedAt, err := parseReceivedAt(req.ReceivedAt)
	if err != nil {
		return usecase.Source{}, err
	}
	if req.Attachment == "" {
		req.Attachment = defaultAttachmentName
	}

	return usecase.Source{
		Subject:    req.Subject,
		ReceivedAt: receivedAt,
		Attachment: req.Attachment,
		Data:       data,
	}, nil
}

func (h *Handler) readMultipartFile(r *http.Request, req *ingestMatchesRequest) ([]byte, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: multipart field \"file\" is required", usecase.ErrInvalidInput)
	}
	defer file.Close()

	if value := strings.TrimSpace(r.FormValue("subject")); value != "" {
		req.Subject = value
	}
	if value := strings.TrimSpace(r.FormValue("received_at")); value != "" {
		req.ReceivedAt = value
	}
	if req.Attachment == "" {
		req.Attachment = strings.TrimSpace(header.Filename)
	}

	return io.ReadAll(file)
}

func isMultipart(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "multipart/form-data"
}

func uploadError(err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return fmt.Errorf("%w: attachment exceeds %d bytes", usecase.ErrInvalidInput, limit)
	case errors.Is(err, usecase.ErrInvalidInput):
		return err
	default:
		return fmt.Errorf("%w: read attachment: %v", usecase.ErrInvalidInput, err)
	}
}

// parseReceivedAt accepts RFC 3339 or a bare date; empty means now.
func parseReceivedAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if value, err := time.Parse(time.RFC3339, raw); err == nil {
		return value.UTC(), nil
	}
	if value, err := time.Parse(match.DateLayout, raw); err == nil {
		return value.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: received_at %q is not RFC 3339 or %s", usecase.ErrInvalidInput, raw, match.DateLayout)
}
