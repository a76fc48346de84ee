package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/q-inventory/config"
	redisadapter "github.com/target/q-inventory/internal/adapters/redis"
	"github.com/target/q-inventory/internal/bootstrap"
	domainauth "github.com/target/q-inventory/internal/domain/auth"
)

type clearSessionsOptions struct {
	Yes bool
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}
	return opts, nil
}

// sessionStoreFor connects to Redis and returns the store the server would use.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func sessionStoreFor(cmdCtx *commandContext) (*redisadapter.SessionStore, redis.UniversalClient, error) {
	if cmdCtx.Config.Auth.SessionStore != config.SessionStoreRedis {
		cmdCtx.Logger.Warn("AUTH_SESSION_STORE is not redis; sessions of a memory-backed server are not reachable from here")
	}
	client, err := bootstrap.ConnectRedis(cmdCtx.Ctx, bootstrap.RedisConnConfig{
		Redis:  cmdCtx.Config.Redis,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	store := redisadapter.NewSessionStore(client, redisadapter.SessionStoreOptions{
		KeyPrefix: cmdCtx.Config.Redis.KeyPrefix,
	})
	return store, client, nil
}

func runListSessions(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	store, client, err := sessionStoreFor(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	sessions, err := store.List(ctx)
	if err != nil {
		return err
	}
	return renderSessionTable(cmdCtx.Out, sessions, time.Now())
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(cmdCtx.Out, cmdCtx.In, "About to delete every session; all users will be signed out.", opts.Yes); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	store, client, err := sessionStoreFor(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	removed, err := store.Purge(ctx)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("clear sessions complete", "keys_deleted", removed)
	return writef(cmdCtx.Out, "Deleted %d session(s).\n", removed)
}

func renderSessionTable(w io.Writer, sessions []domainauth.Session, now time.Time) error {
	if len(sessions) == 0 {
		return writeln(w, "(no live sessions)")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "USERNAME\tROLE\tEXPIRES (UTC)\tREMAINING\tSESSION"); err != nil {
		return fmt.Errorf("write sessions header row: %w", err)
	}
	for _, sess := range sessions {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			sess.Username,
			sess.Role,
			sess.ExpiresAt.UTC().Format(time.RFC3339),
			sess.ExpiresAt.Sub(now).Truncate(time.Second),
			shortID(sess.ID),
		); err != nil {
			return fmt.Errorf("write session row: %w", err)
		}
	}
	return tw.Flush()
}

// shortID keeps enough of a session id to tell rows apart without printing a usable credential.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "…"
}
