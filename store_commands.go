package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Manage worklists kept in the configured database",
	}

	storeCmd.AddCommand(newStoreAddCommand(ctx))
	storeCmd.AddCommand(newStoreListCommand(ctx))
	storeCmd.AddCommand(newStoreRemoveCommand(ctx))
	return storeCmd
}

func newStoreAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <worklist>...",
		Short: "Decode worklists and save them to the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ctx.app.StoreWorklists(cmd.Context(), args)
			for i, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s as worklist %d\n", args[i], id)
			}
			return err
		},
	}
}

func newStoreListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored worklists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := ctx.app.ListStored(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No worklists stored")
				return nil
			}

			headers := []string{"ID", "Name", "Instrument", "Operator", "Jobs", "Locked", "Stored"}
			rows := make([][]string, len(list))
			for i, w := range list {
				rows[i] = []string{
					strconv.FormatInt(w.ID, 10),
					w.Name,
					w.InstrumentName,
					w.OperatorName,
					strconv.FormatInt(w.Jobs, 10),
					yesNo(w.LockedRunMode),
					w.StoredAt,
				}
			}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns, ctx.app.style()))
			return nil
		},
	}
}

func newStoreRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete stored worklists and their jobs",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid worklist id %q", arg)
				}
				if err := ctx.app.DeleteStored(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed worklist %d\n", id)
			}
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
