package main

import (
	"context"
	"strings"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
)

func newInterventionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intervention",
		Short: "Browse and update interventions",
	}
	cmd.AddCommand(interventionListCmd())
	cmd.AddCommand(interventionGetCmd())
	cmd.AddCommand(interventionStatusCmd())
	return cmd
}

func interventionListCmd() *cobra.Command {
	var (
		f      client.InterventionFilter
		export string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interventions",
		Run: func(cmd *cobra.Command, args []string) {
			if err := checkPage(f.Limit, f.Offset); err != nil {
				fatal("list interventions", err)
			}
			ctx := context.Background()
			if export != "" {
				data, err := apiClient.Interventions.Export(ctx, &f)
				if err != nil {
					fatal("export interventions", err)
				}
				if err := writeExport(export, data); err != nil {
					fatal("write export", err)
				}
				return
			}

			items, _, err := apiClient.Interventions.List(ctx, &f)
			if err != nil {
				fatal("list interventions", err)
			}
			ids := make([]string, 0, len(items))
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				ids = append(ids, it.ID)
				rows = append(rows, []string{
					it.ID,
					it.EquipmentID,
					it.Title,
					it.Status,
					orDash(it.ScheduledDate),
					strings.Join(it.Technicians, ", "),
				})
			}
			renderList(items, ids, []string{"ID", "EQUIPMENT", "TITLE", "STATUS", "SCHEDULED", "TECHNICIANS"}, rows)
		},
	}
	cmd.Flags().StringVar(&f.EquipmentID, "equipment", "", "Filter by equipment ID")
	cmd.Flags().StringVar(&f.Technician, "technician", "", "Substring of a technician name")
	cmd.Flags().StringVar(&f.Status, "status", "", "scheduled|in-progress|completed|cancelled|all")
	cmd.Flags().StringVar(&f.DateFrom, "from", "", "Earliest scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.DateTo, "to", "", "Latest scheduled date, inclusive (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Offset")
	cmd.Flags().StringVar(&export, "export", "", "Write an XLSX export to this path (- for stdout)")
	return cmd
}

func interventionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an intervention with its actions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			it, err := apiClient.Interventions.Get(context.Background(), args[0])
			if err != nil {
				fatal("get intervention", err)
			}
			output(it, it.ID)
		},
	}
}

func interventionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the status of an intervention",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			it, err := apiClient.Interventions.SetStatus(context.Background(), args[0], args[1])
			if err != nil {
				fatal("set status", err)
			}
			output(it, it.Status)
		},
	}
}
