package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Browse equipment groups",
	}
	cmd.AddCommand(groupListCmd())
	cmd.AddCommand(groupGetCmd())
	cmd.AddCommand(groupEquipmentCmd())
	return cmd
}

func groupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Run: func(cmd *cobra.Command, args []string) {
			groups, err := apiClient.Groups.List(context.Background())
			if err != nil {
				fatal("list groups", err)
			}
			ids := make([]string, 0, len(groups))
			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				ids = append(ids, g.ID)
				rows = append(rows, []string{g.ID, g.Name, fmt.Sprintf("%d", len(g.EquipmentIDs))})
			}
			renderList(groups, ids, []string{"ID", "NAME", "EQUIPMENT"}, rows)
		},
	}
}

func groupGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a group by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			g, err := apiClient.Groups.Get(context.Background(), args[0])
			if err != nil {
				fatal("get group", err)
			}
			output(g, g.ID)
		},
	}
}

func groupEquipmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equipment <id>",
		Short: "List the equipment in a group",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ids, err := apiClient.Groups.Equipment(context.Background(), args[0])
			if err != nil {
				fatal("group equipment", err)
			}
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, []string{id})
			}
			renderList(ids, ids, []string{"EQUIPMENT"}, rows)
		},
	}
}
