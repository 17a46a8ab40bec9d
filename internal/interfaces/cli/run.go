package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
	"github.com/spf13/cobra"
)

type RunCmd struct{}

func NewRunCmd() *RunCmd {
	return &RunCmd{}
}

func (c *RunCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest one CSV or XLSX file and replace the stored matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("file")
			if err != nil {
				return fmt.Errorf("failed to get file flag: %w", err)
			}
			subject, err := cmd.Flags().GetString("subject")
			if err != nil {
				return fmt.Errorf("failed to get subject flag: %w", err)
			}
			rawDate, err := cmd.Flags().GetString("date")
			if err != nil {
				return fmt.Errorf("failed to get date flag: %w", err)
			}

			receivedAt := time.Now().UTC()
			if strings.TrimSpace(rawDate) != "" {
				receivedAt, err = time.Parse(match.DateLayout, strings.TrimSpace(rawDate))
				if err != nil {
					return fmt.Errorf("invalid date %q, want %s", rawDate, match.DateLayout)
				}
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			services, _, err := newServices(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()

			report, err := services.Ingestion.Run(ctx, usecase.Source{
				Subject:    subject,
				ReceivedAt: receivedAt,
				Attachment: filepath.Base(path),
				Data:       data,
			})
			if err != nil {
				return err
			}

			writeReport(cmd.OutOrStdout(), report)
			switch report.Status {
			case usecase.StatusSuccess, usecase.StatusSkipped:
				return nil
			default:
				return fmt.Errorf("%s: %s", report.Title, report.Description)
			}
		},
	}

	cmd.Flags().StringP("file", "f", "", "path to the CSV or XLSX snapshot")
	cmd.Flags().StringP("subject", "s", "", "subject recorded in the report")
	cmd.Flags().StringP("date", "d", "", "received date recorded in the report (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func writeReport(w io.Writer, report usecase.Report) {
	fmt.Fprintf(w, "%s: %s\n", report.Title, report.Description)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(true)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Status", string(report.Status)})
	table.Append([]string{"Attachment", report.Attachment})
	table.Append([]string{"Current rows", strconv.Itoa(report.CurrentRows)})
	table.Append([]string{"New rows", strconv.Itoa(report.NewRows)})
	table.Append([]string{"Created teams", joinWithOverflow(report.CreatedTeams, report.CreatedTeamsOverflow)})
	if report.DatasetMayBeEmpty {
		table.Append([]string{"Warning", "matches table may be empty"})
	}
	table.Render()

	if len(report.RowErrors) == 0 {
		return
	}
	errorsTable := tablewriter.NewWriter(w)
	errorsTable.SetAutoWrapText(false)
	errorsTable.SetAutoFormatHeaders(false)
	errorsTable.SetHeader([]string{"Row", "Error"})
	for _, item := range report.RowErrors {
		errorsTable.Append([]string{strconv.Itoa(item.Line), item.Message})
	}
	if report.RowErrorsOverflow > 0 {
		errorsTable.SetFooter([]string{"", fmt.Sprintf("+%d more", report.RowErrorsOverflow)})
	}
	errorsTable.Render()
}

func joinWithOverflow(items []string, overflow int) string {
	if len(items) == 0 {
		return "-"
	}
	out := strings.Join(items, ", ")
	if overflow > 0 {
		out += fmt.Sprintf(" (+%d more)", overflow)
	}
	return out
}
