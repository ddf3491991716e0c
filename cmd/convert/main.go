// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

// Command convert copies the sessions of a jsondb file into a kvdb database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	bolt "go.etcd.io/bbolt"

	"github.com/quixsi/tablefinder/internal/db"
	"github.com/quixsi/tablefinder/internal/db/jsondb"
	"github.com/quixsi/tablefinder/internal/db/kvdb"
)

func main() {
	var (
		inputPath  = flag.String("input", "sessions.json", "jsondb session file")
		outputPath = flag.String("output", "sessions.db", "kvdb database file")
	)
	flag.Parse()

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{})
	logger := slog.New(jsonHandler)

	src, err := jsondb.NewSessionStore(*inputPath)
	if err != nil {
		logger.Error("could not initialize jsondb session store", "path", *inputPath, "error", err)
		os.Exit(1)
	}

	bdb, err := bolt.Open(*outputPath, 0600, nil)
	if err != nil {
		logger.Error("could not open kvdb", "path", *outputPath, "error", err)
		os.Exit(1)
	}
	defer bdb.Close()

	dst, err := kvdb.NewSessionStore(bdb)
	if err != nil {
		logger.Error("could not initialize session bucket", "error", err)
		os.Exit(1)
	}

	logger.Info("start converting")
	n, err := into(context.Background(), dst, src)
	if err != nil {
		logger.Error("conversion failed", "converted", n, "error", err)
		os.Exit(1)
	}
	logger.Info("finished converting", "sessions", n)
}

func into(ctx context.Context, dst, src db.SessionStore) (int, error) {
	sessions, err := src.ListSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	for i, s := range sessions {
		if _, err := dst.CreateSession(ctx, s); err != nil {
			return i, fmt.Errorf("create session %s: %w", s.ID, err)
		}
	}
	return len(sessions), nil
}
