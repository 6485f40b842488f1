package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/bookclub/internal/club"
	"github.com/dukerupert/bookclub/internal/model"
)

// withService opens the database and runs fn against a club service.
func (a *app) withService(fn func(svc *club.Service) error) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(club.New(db, club.Options{SessionTTL: a.cfg.SessionTTL, Logger: a.logger}))
}

func (a *app) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage member roles",
	}

	setRole := func(use, short, role string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <username>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withService(func(svc *club.Service) error {
					if err := svc.SetRole(cmd.Context(), args[0], role); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
					return nil
				})
			},
		}
	}
	cmd.AddCommand(
		setRole("promote", "Grant the admin role", model.RoleAdmin),
		setRole("demote", "Revoke the admin role", model.RoleMember),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *club.Service) error {
				users, err := svc.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				for _, u := range users {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.ID, u.Username, u.Role)
				}
				return nil
			})
		},
	})
	return cmd
}

func (a *app) sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Session maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *club.Service) error {
				n, err := svc.PruneSessions(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired sessions\n", n)
				return nil
			})
		},
	})
	return cmd
}
