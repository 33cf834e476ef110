package main

import (
	"github.com/spf13/cobra"

	"go-todo-client/internal/models"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and manage users",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				users, err := a.svc.Users.Load(cmd.Context())
				if err != nil {
					return err
				}
				return a.printer.users(users)
			},
		},
		&cobra.Command{
			Use:   "search <term>",
			Short: "Search users by name or email",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				term := ""
				if len(args) == 1 {
					term = args[0]
				}
				users, err := a.svc.Users.Search(cmd.Context(), term)
				if err != nil {
					return err
				}
				return a.printer.users(users)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				u, err := a.svc.Users.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printer.user(*u)
			},
		},
		&cobra.Command{
			Use:   "by-email <email>",
			Short: "Find a user by email address",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := a.svc.Users.ByEmail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printer.user(*u)
			},
		},
		newUserCreateCmd(a),
		newUserUpdateCmd(a),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a user and their todos",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.svc.Users.Delete(cmd.Context(), id); err != nil {
					return err
				}
				if cur, ok := a.holder.Current(); ok && cur.ID == id {
					if err := a.holder.Clear(cmd.Context()); err != nil {
						return err
					}
				}
				a.printer.message("User %d deleted.", id)
				return nil
			},
		},
	)
	return cmd
}

func newUserCreateCmd(a *app) *cobra.Command {
	var req models.UserRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.svc.Users.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printer.user(*u)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "user name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	return cmd
}

func newUserUpdateCmd(a *app) *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.svc.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			req := models.UserRequest{Name: current.Name, Email: current.Email}
			if cmd.Flags().Changed("name") {
				req.Name = name
			}
			if cmd.Flags().Changed("email") {
				req.Email = email
			}
			u, err := a.svc.Users.Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return a.printer.user(*u)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new user name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	return cmd
}
