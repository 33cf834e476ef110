package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals and recent items for the active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.svc.Dashboard.Load(cmd.Context())
			if err != nil {
				return err
			}
			if ok, err := a.printer.structured(d); ok {
				return err
			}
			w := a.printer.w
			fmt.Fprintf(w, "Welcome, %s!\n\n", d.User.Name)
			fmt.Fprintf(w, "Your todos:      %d\n", d.TotalTodos)
			fmt.Fprintf(w, "Your overdue:    %d\n", d.OverdueTodos)
			fmt.Fprintf(w, "Overdue (store): %d\n", d.StoreOverdueTodos)
			fmt.Fprintf(w, "Users:           %d\n\n", d.TotalUsers)
			fmt.Fprintln(w, "Recent todos:")
			if err := a.printer.todos(d.RecentTodos, a.users, a.clock); err != nil {
				return err
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Recent users:")
			return a.printer.users(d.RecentUsers)
		},
	}
}

func newDataCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect and manage the store's data",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the store holds data",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := a.svc.Dashboard.Status(cmd.Context())
				if err != nil {
					return err
				}
				return a.printer.object(status)
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Show the store's totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				summary, err := a.svc.Dashboard.Summary(cmd.Context())
				if err != nil {
					return err
				}
				return a.printer.object(summary)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete every user and todo in the store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.svc.Dashboard.Reset(cmd.Context()); err != nil {
					return err
				}
				if err := a.holder.Clear(cmd.Context()); err != nil {
					return err
				}
				a.printer.message("All data reset.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Load the sample users and todos into an empty store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.svc.Dashboard.Initialize(cmd.Context()); err != nil {
					return err
				}
				a.printer.message("Sample data initialized.")
				return nil
			},
		},
	)
	return cmd
}
