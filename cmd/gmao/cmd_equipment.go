package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
)

func newEquipmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "equipment",
		Aliases: []string{"eq"},
		Short:   "Browse equipment",
	}
	cmd.AddCommand(equipmentListCmd())
	cmd.AddCommand(equipmentGetCmd())
	cmd.AddCommand(equipmentGroupsCmd())
	return cmd
}

func equipmentListCmd() *cobra.Command {
	var opts client.EquipmentListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List equipment",
		Run: func(cmd *cobra.Command, args []string) {
			if err := checkPage(opts.Limit, opts.Offset); err != nil {
				fatal("list equipment", err)
			}
			items, _, err := apiClient.Equipment.List(context.Background(), &opts)
			if err != nil {
				fatal("list equipment", err)
			}
			headers := []string{"ID", "NAME", "STATUS", "HEALTH", "NEXT MAINTENANCE"}
			if opts.Enriched {
				headers = append(headers, "GROUPS")
			}
			ids := make([]string, 0, len(items))
			rows := make([][]string, 0, len(items))
			for _, e := range items {
				ids = append(ids, e.ID)
				row := []string{e.ID, e.Name, e.Status, fmt.Sprintf("%d%%", e.HealthPercentage), dateOrDash(e.NextMaintenance)}
				if opts.Enriched {
					row = append(row, strings.Join(e.GroupIDs, ","))
				}
				rows = append(rows, row)
			}
			renderList(items, ids, headers, rows)
		},
	}
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status (operational|maintenance|faulty)")
	cmd.Flags().StringVar(&opts.BuildingID, "building", "", "Filter by building ID")
	cmd.Flags().StringVar(&opts.ServiceID, "service", "", "Filter by service ID")
	cmd.Flags().StringVar(&opts.LocationID, "location", "", "Filter by location ID")
	cmd.Flags().BoolVar(&opts.Enriched, "enriched", false, "Attach group memberships")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Offset")
	return cmd
}

func equipmentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an equipment by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			e, err := apiClient.Equipment.Get(context.Background(), args[0])
			if err != nil {
				fatal("get equipment", err)
			}
			output(e, e.ID)
		},
	}
}

func equipmentGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <id>",
		Short: "List the groups an equipment belongs to",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ids, err := apiClient.Equipment.Groups(context.Background(), args[0])
			if err != nil {
				fatal("equipment groups", err)
			}
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, []string{id})
			}
			renderList(ids, ids, []string{"GROUP"}, rows)
		},
	}
}

func checkPage(limit, offset int) error {
	if limit < 0 {
		return fmt.Errorf("--limit must be non-negative")
	}
	if offset < 0 {
		return fmt.Errorf("--offset must be non-negative")
	}
	return nil
}

// writeExport saves data to path, or to stdout when path is "-".
func writeExport(path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(data), path)
	return nil
}
