package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"liferpg/internal/engine"
	"liferpg/internal/ui"
)

func newRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage life roles",
	}
	cmd.AddCommand(newRoleAddCmd(), newRoleListCmd(), newRoleActiveCmd())
	return cmd
}

func newRoleAddCmd() *cobra.Command {
	var desc, icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a role (at most 7 active)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			role, err := s.svc.CreateRole(ctx, engine.CreateRoleInput{
				UserID:      s.userID,
				Name:        args[0],
				Description: desc,
				Icon:        icon,
				Color:       color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Role created"), role.Name, ui.Muted.Render(role.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon name")
	cmd.Flags().StringVar(&color, "color", "", "Color class")
	return cmd
}

func newRoleListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roles with their level progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			roles, err := s.svc.ListRoles(ctx, s.userID, !all)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconRole, "Roles"))
			if len(roles) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none yet, try `ql role add Athlete`)"))
				return nil
			}
			for _, r := range roles {
				name := r.Name
				if !r.IsActive {
					name += " " + ui.Muted.Render("(inactive)")
				}
				fmt.Fprintf(out, "- %s %s\n  %s\n", ui.H2.Render(name), ui.Muted.Render(r.ID), ui.LevelLine(r.Level, r.CurrentXP, r.XPToNextLevel))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include inactive roles")
	return cmd
}

func newRoleActiveCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "activate <role_id>",
		Short: "Activate (or with --off deactivate) a role",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("role_id is required")
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

			role, err := s.svc.SetRoleActive(ctx, s.userID, args[0], !off)
			if err != nil {
				return err
			}
			state := ui.Good.Render("active")
			if !role.IsActive {
				state = ui.Muted.Render("inactive")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", role.Name, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Deactivate instead")
	return cmd
}
