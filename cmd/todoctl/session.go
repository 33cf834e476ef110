package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"go-todo-client/internal/services"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <user-id>",
		Short: "Select the active user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.svc.Users.Select(cmd.Context(), id)
			if err != nil {
				return err
			}
			if ok, err := a.printer.structured(u); ok {
				return err
			}
			a.printer.message("Selected %s <%s> (id %d)", u.Name, u.Email, u.ID)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := a.holder.Current()
			if !ok {
				return services.ErrNoActiveUser
			}
			return a.printer.user(u)
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.holder.Clear(cmd.Context()); err != nil {
				return err
			}
			a.printer.message("Logged out.")
			return nil
		},
	}
}
