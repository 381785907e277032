package main

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func addTableFlags(cmd *cobra.Command, opts *TableOptions) {
	cmd.Flags().StringSliceVarP(&opts.Columns, "columns", "C", nil, "Columns to include, by name or alias (default: all visible)")
	cmd.Flags().BoolVar(&opts.BaseNames, "base-names", false, "Show file names instead of full paths")
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var opts TableOptions

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Display a worklist or an exported .csv/.jsonl table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.app.Show(args[0], opts)
		},
	}

	addTableFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Show at most this many jobs")
	return cmd
}

func newColumnsCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "columns <worklist>",
		Short: "List the column definitions of a worklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.app.Columns(args[0], all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden reserved columns")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var opts ExportOptions

	cmd := &cobra.Command{
		Use:   "export <worklist>...",
		Short: "Export worklist jobs to csv, json, jsonl or xlsx",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs a single worklist, got %d", len(args))
			}
			var savedErrs *multierror.Error
			for _, path := range args {
				out, err := ctx.app.Export(path, opts)
				if err != nil {
					savedErrs = multierror.Append(savedErrs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", path, out)
			}
			return savedErrs.ErrorOrNil()
		},
	}

	addTableFlags(cmd, &opts.TableOptions)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: csv, json, jsonl or xlsx (default from config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: worklist name with the format extension)")
	return cmd
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var required []string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate worklists and exported tables without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := ctx.app.Check(args, required)
			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "ok   %s (%d jobs)\n", r.Path, r.Jobs)
			}
			if err == nil {
				return nil
			}
			if merr, ok := err.(*multierror.Error); ok {
				for _, e := range merr.Errors {
					fmt.Fprintf(out, "fail %s\n", e)
				}
				return fmt.Errorf("%d of %d files failed", len(merr.Errors), len(args))
			}
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&required, "require", "r", nil, "Columns every file must contain")
	return cmd
}
