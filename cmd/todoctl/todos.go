package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-todo-client/internal/collection"
	"go-todo-client/internal/models"
	"go-todo-client/internal/services"
)

func newTodosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "List and manage the active user's todos",
	}
	cmd.AddCommand(
		newTodoListCmd(a),
		&cobra.Command{
			Use:   "overdue",
			Short: "List the active user's overdue todos using the store's overdue endpoint",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var todos []models.Todo
				g, gctx := errgroup.WithContext(cmd.Context())
				g.Go(func() error {
					var err error
					todos, err = a.svc.Todos.Overdue(gctx)
					return err
				})
				g.Go(func() error {
					_, err := a.svc.Users.Load(gctx)
					return err
				})
				if err := g.Wait(); err != nil {
					return err
				}
				return a.printer.todos(todos, a.users, a.clock)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a todo",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.svc.Todos.Load(cmd.Context()); err != nil {
					return err
				}
				t, err := a.svc.Todos.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printer.todo(*t, a.users, a.clock)
			},
		},
		newTodoCreateCmd(a),
		newTodoUpdateCmd(a),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a todo",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.svc.Todos.Delete(cmd.Context(), id); err != nil {
					return err
				}
				a.printer.message("Todo %d deleted.", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "range <from> <to>",
			Short: "List todos of all users due between two dates (YYYY-MM-DD, inclusive)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				from, err := time.ParseInLocation(time.DateOnly, args[0], time.Local)
				if err != nil {
					return fmt.Errorf("invalid start date %q", args[0])
				}
				to, err := time.ParseInLocation(time.DateOnly, args[1], time.Local)
				if err != nil {
					return fmt.Errorf("invalid end date %q", args[1])
				}
				if to.Before(from) {
					return fmt.Errorf("end date %s is before start date %s", args[1], args[0])
				}
				if _, err := a.svc.Users.Load(cmd.Context()); err != nil {
					return err
				}
				todos, err := a.svc.Todos.ByDateRange(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				return a.printer.todos(todos, a.users, a.clock)
			},
		},
	)
	return cmd
}

func newTodoListCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active user's todos in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := collection.ParseFilter(filter)
			if err != nil {
				return err
			}
			if _, ok := a.holder.Current(); !ok {
				return services.ErrNoActiveUser
			}
			if err := a.svc.Todos.Load(cmd.Context()); err != nil {
				return err
			}
			todos, err := a.svc.Todos.View(f)
			if err != nil {
				return err
			}
			return a.printer.todos(todos, a.users, a.clock)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(collection.FilterAll), "filter: all or overdue")
	return cmd
}

// todoFlags は作成・更新で共通のフラグです。
type todoFlags struct {
	form models.TodoForm
}

func (f *todoFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.form.Description, "description", "d", "", "description (up to 500 characters)")
	fl.IntVar(&f.form.Order, "order", 1, "display order (1 or greater)")
	fl.StringVar(&f.form.PlannedDate, "planned", "", "planned date (YYYY-MM-DD, empty to clear)")
	fl.StringVar(&f.form.DueDate, "due", "", "due date (YYYY-MM-DD, empty to clear)")
}

// apply は指定されたフラグだけを form に上書きします。
func (f *todoFlags) apply(cmd *cobra.Command, form models.TodoForm) models.TodoForm {
	fl := cmd.Flags()
	if fl.Changed("description") {
		form.Description = f.form.Description
	}
	if fl.Changed("order") {
		form.Order = f.form.Order
	}
	if fl.Changed("planned") {
		form.PlannedDate = f.form.PlannedDate
	}
	if fl.Changed("due") {
		form.DueDate = f.form.DueDate
	}
	return form
}

func newTodoCreateCmd(a *app) *cobra.Command {
	flags := &todoFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a todo owned by the active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.Todos.Create(cmd.Context(), flags.form)
			if err != nil {
				return err
			}
			if u, ok := a.holder.Current(); ok {
				a.users.ApplyUpdate(u.ID, u)
			}
			return a.printer.todo(*t, a.users, a.clock)
		},
	}
	flags.register(cmd)
	return cmd
}

func newTodoUpdateCmd(a *app) *cobra.Command {
	flags := &todoFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a todo; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.svc.Todos.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			form := flags.apply(cmd, services.FormFromTodo(*current))
			t, err := a.svc.Todos.Update(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			if u, ok := a.holder.Current(); ok {
				a.users.ApplyUpdate(u.ID, u)
			}
			return a.printer.todo(*t, a.users, a.clock)
		},
	}
	flags.register(cmd)
	return cmd
}
