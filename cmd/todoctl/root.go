package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"go-todo-client/internal/collection"
	"go-todo-client/internal/config"
	"go-todo-client/internal/dates"
	"go-todo-client/internal/gateway"
	"go-todo-client/internal/logging"
	"go-todo-client/internal/services"
	"go-todo-client/internal/session"
)

// rootOptions はテストから差し込む依存関係です。
type rootOptions struct {
	storage session.Storage
	clock   dates.Clock
}

// app はコマンド実行中に共有する状態です。
type app struct {
	cfg     config.Config
	logger  *log.Logger
	holder  *session.Holder
	todos   *collection.Todos
	users   *collection.Users
	clock   dates.Clock
	svc     *services.Services
	printer *printer
	closers []func() error
}

type rootFlags struct {
	configPath string
	apiURL     string
	logLevel   string
	output     string
	ephemeral  bool
}

func newRootCmd(out, errOut io.Writer, opts rootOptions) (*cobra.Command, *app) {
	a := &app{}
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "todoctl",
		Short:         "Manage users and todo items in the shared todo store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), flags, out, errOut, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: $TODO_CLIENT_CONFIG or <user config dir>/todo-client/config.toml)")
	pf.StringVar(&flags.apiURL, "api", "", "API base URL (overrides API_BASE_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&flags.output, "output", "o", formatTable, "output format: table, json, yaml")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep the selected user in memory only")

	cmd.AddCommand(
		newSelectCmd(a),
		newWhoamiCmd(a),
		newLogoutCmd(a),
		newUsersCmd(a),
		newTodosCmd(a),
		newDashboardCmd(a),
		newDataCmd(a),
	)
	return cmd, a
}

func (a *app) init(ctx context.Context, flags *rootFlags, out, errOut io.Writer, opts rootOptions) error {
	path := flags.configPath
	if path == "" {
		path = config.DefaultFilePath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if flags.apiURL != "" {
		cfg.APIBaseURL = flags.apiURL
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.ephemeral {
		cfg.SessionBackend = config.SessionBackendMemory
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, errOut)

	p, err := newPrinter(out, flags.output)
	if err != nil {
		return err
	}
	a.printer = p

	storage := opts.storage
	if storage == nil {
		storage, err = a.openStorage(ctx)
		if err != nil {
			return err
		}
	}

	gw := gateway.New(cfg.APIBaseURL,
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithRateLimit(cfg.RequestRate),
		gateway.WithLogger(a.logger),
	)
	a.holder = session.NewHolder(storage, a.logger)
	if u, ok := a.holder.Restore(ctx); ok {
		a.logger.Debug("restored selected user", "id", u.ID)
	}
	a.clock = opts.clock
	if a.clock == nil {
		a.clock = dates.SystemClock{}
	}
	a.todos = collection.NewTodos()
	a.users = collection.NewUsers()
	a.svc = services.New(services.Deps{
		Gateway: gw,
		Session: a.holder,
		Todos:   a.todos,
		Users:   a.users,
		Clock:   a.clock,
		Logger:  a.logger,
	})
	return nil
}

func (a *app) openStorage(ctx context.Context) (session.Storage, error) {
	switch a.cfg.SessionBackend {
	case config.SessionBackendMemory:
		return session.NewMemoryStorage(), nil
	case config.SessionBackendRedis:
		rs, err := session.NewRedisStorage(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	default:
		path := a.cfg.SessionFile
		if path == "" {
			var err error
			if path, err = session.DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		return session.NewFileStorage(path), nil
	}
}

func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// run はコマンドを実行し、終了コードを返します。
func run(args []string, out, errOut io.Writer, opts rootOptions) int {
	cmd, a := newRootCmd(out, errOut, opts)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}
	_ = a.close()
	printError(errOut, err)
	return 1
}

func printError(w io.Writer, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(w, "Please fix the following fields:")
		for _, line := range verr.Fields.Lines() {
			fmt.Fprintln(w, "  "+line)
		}
	case errors.Is(err, services.ErrNoActiveUser):
		fmt.Fprintln(w, "no user selected; run `todoctl select <id>`")
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}
