package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var req QueryRequest
	var output, format string
	var matchAny bool

	cmd := &cobra.Command{
		Use:   "query [filter]...",
		Short: "Search stored jobs",
		Long: `Search jobs in the configured database.

Each filter has the form NAME OP VALUE, where NAME is a column display name
(or job.<field> for a fixed job field such as job.run_status) and OP is one of
  =   equal          !=  not equal
  >   greater than   <   less than
  >=  at least       <=  at most
  ~   contains       !~  does not contain
The ordering operators compare numerically when VALUE is a number, and
then skip stored values that are not numbers.`,
		Example: `  mhwork query "Sample Type=QC" "Dilution>=2"
  mhwork query --worklist 3 --from 2020-12-08 "Sample Name~blank"
  mhwork query --or job.run_status=0 job.run_status=1 -o jobs.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Filters = args
			if matchAny {
				req.Logic = "or"
			}
			resp, err := ctx.app.QueryJobs(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				if err := ctx.app.ExportQuery(resp, output, format); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %d of %d jobs to %s\n", len(resp.Jobs), resp.TotalCount, output)
				return nil
			}

			if len(resp.Jobs) > 0 {
				fmt.Fprintln(out, renderModelTable(resp.Table, ctx.app.style()))
			}
			fmt.Fprintf(out, "%d of %d jobs (page %d)\n", len(resp.Jobs), resp.TotalCount, resp.Page)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&matchAny, "or", false, "Match any filter instead of all")
	flags.Int64VarP(&req.WorklistID, "worklist", "w", 0, "Restrict to one stored worklist")
	flags.StringVar(&req.From, "from", "", "Acquired at or after (YYYY-MM-DD or RFC 3339)")
	flags.StringVar(&req.To, "to", "", "Acquired at or before (YYYY-MM-DD or RFC 3339)")
	flags.StringVar(&req.OrderBy, "order-by", "", "Job field to sort by, e.g. acquired_time")
	flags.IntVarP(&req.Page, "page", "p", 1, "Page number")
	flags.IntVar(&req.PageSize, "page-size", 0, "Jobs per page (default from config)")
	flags.StringSliceVarP(&req.Columns, "columns", "C", nil, "Columns to include")
	flags.StringVarP(&output, "output", "o", "", "Write results to a file instead of the terminal")
	flags.StringVarP(&format, "format", "f", "", "Output file format (default from the file extension)")
	return cmd
}
