package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"liferpg/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show dashboard stats, roles and recent XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := s.svc.DashboardStats(ctx, s.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintln(out, ui.LabelValue("Level", st.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d (next level at %d)", st.TotalXP, st.XPToNextLevel)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, st.GlobalStreak)))
			fmt.Fprintln(out, ui.LabelValue("Focus today", fmt.Sprintf("%.1fh", st.FocusHoursToday)))
			fmt.Fprintln(out, "")

			roles, err := s.svc.ListRoles(ctx, s.userID, true)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.H2.Render(ui.IconRole+" Roles"))
			if len(roles) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			for _, r := range roles {
				fmt.Fprintf(out, "- %s %s\n", ui.Key.Render(r.Name), ui.LevelLine(r.Level, r.CurrentXP, r.XPToNextLevel))
			}
			fmt.Fprintln(out, "")

			entries, err := s.svc.RecentXP(ctx, s.userID, recent)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.H2.Render(ui.IconBolt+" Recent XP"))
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(nothing yet)"))
			}
			for _, e := range entries {
				fmt.Fprintf(out, "- %s %s %s\n", ui.Gold.Render(fmt.Sprintf("+%d", e.XPAmount)), e.SourceType,
					ui.Muted.Render(e.CreatedAt.Local().Format("Jan 02 15:04")))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&recent, "recent", "n", 5, "How many ledger entries to show")
	return cmd
}
