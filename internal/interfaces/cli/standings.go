package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
	"github.com/spf13/cobra"
)

type StandingsCmd struct{}

func NewStandingsCmd() *StandingsCmd {
	return &StandingsCmd{}
}

func (c *StandingsCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print division standings from the stored matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			divisionRef, err := cmd.Flags().GetString("division")
			if err != nil {
				return fmt.Errorf("failed to get division flag: %w", err)
			}

			ctx := cmd.Context()
			services, _, err := newServices(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()

			var tables []usecase.DivisionStandings
			if strings.TrimSpace(divisionRef) == "" {
				tables, err = services.Standings.LeagueOverview(ctx)
			} else {
				var table usecase.DivisionStandings
				table, err = services.Standings.Standings(ctx, divisionRef)
				tables = []usecase.DivisionStandings{table}
			}
			if err != nil {
				return err
			}

			for _, table := range tables {
				writeStandingsTable(cmd.OutOrStdout(), table)
			}
			return nil
		},
	}

	cmd.Flags().StringP("division", "D", "", "division id, name or abbreviation (default: every division)")

	return cmd
}

func writeStandingsTable(w io.Writer, standings usecase.DivisionStandings) {
	header := standings.Division.Name
	if standings.Division.PlayTime != "" {
		header += " (" + standings.Division.PlayTime + ")"
	}
	fmt.Fprintln(w, header)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(true)
	table.SetHeader([]string{"Pos", "Team", "W", "L", "Win %", "PF", "PA", "Diff"})
	for _, entry := range standings.Entries {
		table.Append([]string{
			strconv.Itoa(entry.Position),
			entry.Team,
			strconv.Itoa(entry.Wins),
			strconv.Itoa(entry.Losses),
			fmt.Sprintf("%.3f", entry.WinPct),
			strconv.Itoa(entry.PointsFor),
			strconv.Itoa(entry.PointsAgainst),
			fmt.Sprintf("%+d", entry.PointDiff()),
		})
	}
	table.Render()
}
