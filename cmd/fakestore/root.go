package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"go-todo-client/internal/dates"
	"go-todo-client/internal/fakestore"
	"go-todo-client/internal/logging"
)

type serverFlags struct {
	addr     string
	origins  string
	seed     bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &serverFlags{}
	cmd := &cobra.Command{
		Use:           "fakestore",
		Short:         "Run an in-memory todo store for local development",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newServer(flags, cmd)
			return r.Run(flags.addr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.addr, "addr", envOr("FAKESTORE_ADDR", ":5025"), "listen address")
	f.StringVar(&flags.origins, "origins", envOr("FAKESTORE_ORIGINS", "http://localhost:3000"), "comma separated CORS origins (empty disables CORS)")
	f.BoolVar(&flags.seed, "seed", true, "load sample users and todos on start")
	f.StringVar(&flags.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	return cmd
}

// newServer はフラグに従ってストアとルーターを用意します。
func newServer(flags *serverFlags, cmd *cobra.Command) *gin.Engine {
	logger := logging.New(flags.logLevel, cmd.ErrOrStderr()).WithPrefix("fakestore")

	store := fakestore.NewStore(dates.SystemClock{})
	if flags.seed {
		store.Seed()
		users, todos, _ := store.Counts()
		logger.Info("sample data loaded", "users", users, "todos", todos)
	}

	r := fakestore.NewRouter(store, splitOrigins(flags.origins)...)
	logger.Info(fmt.Sprintf("Server listening on %s...", flags.addr))
	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
