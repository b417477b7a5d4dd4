package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/gmaohq/gmao/client"
	"github.com/spf13/cobra"
)

var auditEntityTypes = []string{client.AuditEquipment, client.AuditGroup, client.AuditIntervention, client.AuditLog}

type auditFlags struct {
	entityType string
	entityID   string
	action     string
	since      string
	limit      int
	offset     int
}

// auditOptions turns flags into query options. since accepts a lookback
// duration ("36h") or a calendar day ("2024-03-15").
func (f auditFlags) auditOptions(now time.Time) (*client.AuditQueryOptions, error) {
	if f.entityType != "" && !slices.Contains(auditEntityTypes, f.entityType) {
		return nil, fmt.Errorf("--type must be one of %v", auditEntityTypes)
	}
	if f.entityID != "" && f.entityType == "" {
		return nil, fmt.Errorf("--entity needs --type")
	}
	if err := checkPage(f.limit, f.offset); err != nil {
		return nil, err
	}

	opts := &client.AuditQueryOptions{
		EntityType: f.entityType,
		EntityID:   f.entityID,
		Action:     f.action,
		Limit:      f.limit,
		Offset:     f.offset,
	}
	if f.since == "" {
		return opts, nil
	}
	if d, err := time.ParseDuration(f.since); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("--since duration must be positive")
		}
		t := now.Add(-d)
		opts.Since = &t
		return opts, nil
	}
	day, err := time.ParseInLocation("2006-01-02", f.since, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--since must be a duration like 36h or a date like 2024-03-15")
	}
	opts.Since = &day
	return opts, nil
}

func newAuditCmd() *cobra.Command {
	var f auditFlags
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show who changed what",
		Run: func(cmd *cobra.Command, args []string) {
			opts, err := f.auditOptions(time.Now())
			if err != nil {
				fatal("audit", err)
			}
			entries, _, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("audit", err)
			}
			renderAudit(entries)
		},
	}
	cmd.Flags().StringVar(&f.entityType, "type", "", "Entity type (equipment|group|intervention|audit)")
	cmd.Flags().StringVar(&f.entityID, "entity", "", "Entity ID, requires --type")
	cmd.Flags().StringVar(&f.action, "action", "", "Action, e.g. membership.add")
	cmd.Flags().StringVar(&f.since, "since", "", "Lookback (36h) or start day (2024-03-15)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Offset")

	cmd.AddCommand(auditEquipmentCmd())
	cmd.AddCommand(auditPurgeCmd())
	return cmd
}

// auditEquipmentCmd shows one equipment's trail, membership changes included.
func auditEquipmentCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "equipment <id>",
		Short: "Show the audit trail of one equipment",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entries, _, err := apiClient.Audit.ForEquipment(context.Background(), args[0], limit)
			if err != nil {
				fatal("equipment audit", err)
			}
			renderAudit(entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	return cmd
}

func renderAudit(entries []client.AuditEntry) {
	ids := make([]string, 0, len(entries))
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		id := strconv.FormatInt(e.ID, 10)
		actor := e.Actor
		ids = append(ids, id)
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			orDash(&actor),
			e.Action,
			e.EntityType + "/" + e.EntityID,
		})
	}
	renderList(entries, ids, []string{"WHEN", "ACTOR", "ACTION", "ENTITY"}, rows)
}

func auditPurgeCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete audit entries past the retention window",
		Run: func(cmd *cobra.Command, args []string) {
			deleted, err := apiClient.Audit.Purge(context.Background(), days)
			if err != nil {
				fatal("audit purge", err)
			}
			output(map[string]int{"deleted": deleted}, strconv.Itoa(deleted))
		},
	}
	cmd.Flags().IntVar(&days, "retention-days", 0, "Keep this many days (server default 90, minimum 7)")
	return cmd
}
