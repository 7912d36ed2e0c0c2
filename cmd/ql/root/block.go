package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"liferpg/internal/engine"
	"liferpg/internal/ui"
)

func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Plan time blocks",
	}
	cmd.AddCommand(newBlockAddCmd(), newBlockListCmd(), newBlockRmCmd())
	return cmd
}

func newBlockAddCmd() *cobra.Command {
	var roleID, blockType, days string

	cmd := &cobra.Command{
		Use:   "add <title> <HH:MM> <HH:MM>",
		Short: "Add a time block; focus blocks count toward focus hours",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("title, start and end are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseClock(args[1])
			if err != nil {
				return err
			}
			end, err := parseClock(args[2])
			if err != nil {
				return err
			}
			dow, err := parseDays(days)
			if err != nil {
				return err
			}

			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			in := engine.CreateTimeBlockInput{
				UserID:      s.userID,
				Title:       args[0],
				StartMinute: start,
				EndMinute:   end,
				BlockType:   blockType,
				IsRecurring: len(dow) > 0,
				DaysOfWeek:  dow,
			}
			if roleID != "" {
				in.RoleID = &roleID
			}
			b, err := s.svc.CreateTimeBlock(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconClock+" Block added"), b.Title,
				ui.Muted.Render(fmt.Sprintf("(%s-%s, %s, %s)", formatClock(b.StartMinute), formatClock(b.EndMinute), b.BlockType, b.DayPeriod)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleID, "role", "r", "", "Role ID")
	cmd.Flags().StringVarP(&blockType, "type", "t", "focus", "Block type (focus|rest|admin)")
	cmd.Flags().StringVar(&days, "days", "", "Recurring weekdays, 0=Sunday (e.g. 1,2,3,4,5)")
	return cmd
}

func newBlockListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List time blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			blocks, err := s.svc.ListTimeBlocks(ctx, s.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconClock, "Time blocks"))
			if len(blocks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, b := range blocks {
				when := "one-off"
				if b.IsRecurring {
					when = fmt.Sprintf("days %v", b.DaysOfWeek)
				}
				fmt.Fprintf(out, "- %s-%s %s %s\n", formatClock(b.StartMinute), formatClock(b.EndMinute), b.Title,
					ui.Muted.Render(fmt.Sprintf("(%s, %s)", b.BlockType, when)))
			}
			return nil
		},
	}
	return cmd
}

// parseClock turns "HH:MM" into minutes since midnight. "24:00" is allowed as an end.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func parseDays(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday %q (0=Sunday..6=Saturday)", part)
		}
		out = append(out, d)
	}
	return out, nil
}

func newBlockRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <block_id>",
		Short: "Delete a time block",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("block_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.DeleteTimeBlock(ctx, s.userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Time block deleted"))
			return nil
		},
	}
	return cmd
}
