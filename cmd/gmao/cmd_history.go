package main

import (
	"context"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		f      client.HistoryFilter
		export string
	)
	cmd := &cobra.Command{
		Use:   "history <equipment-id>",
		Short: "Show the field change history of an equipment",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			if export != "" {
				data, err := apiClient.Equipment.ExportHistory(ctx, args[0], &f)
				if err != nil {
					fatal("export history", err)
				}
				if err := writeExport(export, data); err != nil {
					fatal("write export", err)
				}
				return
			}

			entries, err := apiClient.Equipment.History(ctx, args[0], &f)
			if err != nil {
				fatal("get history", err)
			}
			ids := make([]string, 0, len(entries))
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				ids = append(ids, e.FieldName)
				rows = append(rows, []string{
					e.ChangedAt.Format("2006-01-02 15:04"),
					e.FieldName,
					orDash(e.OldValue),
					orDash(e.NewValue),
					e.ChangedBy,
				})
			}
			renderList(entries, ids, []string{"CHANGED_AT", "FIELD", "OLD", "NEW", "BY"}, rows)
		},
	}
	cmd.Flags().StringVar(&f.Technician, "technician", "", "Substring of the person who made the change")
	cmd.Flags().StringVar(&f.Field, "field", "", "Substring of the field name")
	cmd.Flags().StringVar(&f.DateFrom, "from", "", "Earliest change date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.DateTo, "to", "", "Latest change date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&export, "export", "", "Write an XLSX export to this path (- for stdout)")
	return cmd
}
