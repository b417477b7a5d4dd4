package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
)

func newMembershipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "membership",
		Short: "Manage equipment/group membership",
	}
	cmd.AddCommand(membershipListCmd())
	cmd.AddCommand(membershipAddCmd())
	cmd.AddCommand(membershipRemoveCmd())
	cmd.AddCommand(membershipRefreshCmd())
	return cmd
}

func membershipListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List memberships",
		Run: func(cmd *cobra.Command, args []string) {
			st, err := apiClient.Memberships.List(context.Background())
			if err != nil {
				fatal("list memberships", err)
			}
			printState(st)
		},
	}
}

func membershipRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force the server to refetch memberships",
		Run: func(cmd *cobra.Command, args []string) {
			st, err := apiClient.Memberships.Refresh(context.Background())
			if err != nil {
				fatal("refresh memberships", err)
			}
			printState(st)
		},
	}
}

func membershipAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <equipment-id> <group-id>",
		Short: "Add an equipment to a group",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient.Memberships.Add(context.Background(), args[0], args[1])
			if err != nil {
				fatal("add membership", err)
			}
			printMutation(res)
		},
	}
}

func membershipRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <equipment-id> <group-id>",
		Short: "Remove an equipment from a group",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient.Memberships.Remove(context.Background(), args[0], args[1])
			if err != nil {
				fatal("remove membership", err)
			}
			printMutation(res)
		},
	}
}

func printState(st *client.MembershipState) {
	if st.Error != "" {
		fmt.Fprintf(os.Stderr, "Warning: last refresh failed, list may be stale: %s\n", st.Error)
	}
	ids := make([]string, 0, len(st.Memberships))
	rows := make([][]string, 0, len(st.Memberships))
	for _, m := range st.Memberships {
		ids = append(ids, m.EquipmentID+"/"+m.GroupID)
		rows = append(rows, []string{m.EquipmentID, m.GroupID, m.CreatedAt.Format("2006-01-02 15:04:05")})
	}
	renderList(st, ids, []string{"EQUIPMENT", "GROUP", "CREATED_AT"}, rows)
}

func printMutation(res *client.MutationResult) {
	if res.RefreshError != "" {
		fmt.Fprintf(os.Stderr, "Warning: change saved but refresh failed: %s\n", res.RefreshError)
	}
	output(res, fmt.Sprintf("%d", res.Version))
}
