package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"resultsdash/internal/cli"
	"resultsdash/internal/core"
	applog "resultsdash/internal/log"
	"resultsdash/internal/services"
)

const (
	formatText = "text"
	formatJSON = "json"

	barRunes = 40
)

type viewOptions struct {
	area        string
	indicator   string
	projects    []string
	allProjects bool
	format      string
}

func newViewCmd(e *env) *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the dashboard view for a selection",
		Long: `Resolve a selection the way the dashboard does and print the result.
Unknown areas or indicators fall back to the first option; projects that do
not report the chosen indicator are dropped. Without --project the default
project selection applies.`,
		Example: `  results-report view --area Livelihoods --indicator "Number of jobs created"
  results-report view --project 13229 --project 12274 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatText && opts.format != formatJSON {
				return fmt.Errorf("invalid format %q: must be %s or %s", opts.format, formatText, formatJSON)
			}

			sel := core.FilterSelection{ThematicArea: opts.area, Indicator: opts.indicator}
			switch {
			case opts.allProjects:
				sel.Projects = []string{}
			case cmd.Flags().Changed("project"):
				sel.Projects = opts.projects
			}

			ctx := cmd.Context()
			svc, err := cli.LoadDashboard(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			st, err := svc.State(ctx, sel)
			if err != nil {
				return err
			}
			e.logger.DebugContext(ctx, "Selection resolved",
				applog.FieldOperation, applog.OpResolve,
				applog.FieldThematicArea, st.Selection.ThematicArea,
				applog.FieldIndicator, st.Selection.Indicator,
				applog.FieldRows, st.Rows)

			if opts.format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			return writeText(cmd.OutOrStdout(), st)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.area, "area", "", "thematic area")
	f.StringVar(&opts.indicator, "indicator", "", "indicator definition")
	f.StringArrayVar(&opts.projects, "project", nil, "project number (repeatable)")
	f.BoolVar(&opts.allProjects, "all-projects", false, "include every project reporting the indicator")
	f.StringVarP(&opts.format, "format", "f", formatText, "output format: text or json")
	cmd.MarkFlagsMutuallyExclusive("project", "all-projects")

	return cmd
}

// writeText prints the view in the order the dashboard lays it out.
func writeText(w io.Writer, st services.State) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", st.Title)
	projects := "all"
	if len(st.Selection.Projects) > 0 {
		projects = strings.Join(st.Selection.Projects, ", ")
	}
	fmt.Fprintf(&b, "Projects: %s\n", projects)
	for _, d := range st.Descriptions {
		fmt.Fprintf(&b, "  %s - %s\n", d.Project, d.Description)
	}

	if st.View.Empty {
		b.WriteString("\nNo data available for the selected filters.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if s := st.View.Summary; s != nil {
		b.WriteString("\nSummary\n")
		fmt.Fprintf(&b, "  Total Beneficiaries:  %s\n", s.TotalText)
		fmt.Fprintf(&b, "  Male Beneficiaries:   %s\n", s.MaleText)
		fmt.Fprintf(&b, "  Female Beneficiaries: %s\n", s.FemaleText)
	}

	b.WriteString("\nTotal Beneficiaries per Project\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, bar := range st.View.Bars {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", bar.Project, core.FormatCount(bar.Total), strings.Repeat("#", bar.Width*barRunes/100))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b.WriteString("\nGender Distribution\n")
	for _, slice := range st.View.Pie {
		fmt.Fprintf(&b, "  %s: %s (%s)\n", slice.Label, core.FormatCount(slice.Value), slice.Percent)
	}

	b.WriteString("\nTop Projects by Total Beneficiaries\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  PROJECT\tTHEMATIC AREA\tINDICATOR\tFEMALE\tMALE\tTOTAL")
	for _, r := range st.View.Top {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%d\t%d\n",
			r.ProjectNumber, r.ThematicArea, r.IndicatorDefinition,
			r.FemaleResult, r.MaleResult, r.TotalResult)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, b.String())
	return err
}
