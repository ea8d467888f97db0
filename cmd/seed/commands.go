// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vadali/newsroom/internal/platform/config"
	"github.com/vadali/newsroom/internal/platform/constants"
	"github.com/vadali/newsroom/internal/platform/database"
	"github.com/vadali/newsroom/internal/platform/seed"
)

const seedTimeout = 2 * time.Minute

type options struct {
	file    string
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Load fixture data into the newsroom document store",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Fixture JSON file (default: embedded fixture)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every table write")

	root.AddCommand(newApplyCommand(opts), newValidateCommand(opts))
	return root
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Write the fixture into STORE_DRIVER",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dataset, err := loadDataset(opts.file)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), seedTimeout)
			defer cancel()

			logger := newLogger(opts.verbose)
			connection, err := database.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = connection.Close(context.Background()) }()

			section(fmt.Sprintf("Seeding %s store", connection.Driver))
			reports, err := seed.Apply(ctx, connection.Store, cfg.Tables, dataset, logger)
			for _, report := range reports {
				success("%-36s %d items", report.Table, report.Count)
			}
			if err != nil {
				return err
			}
			if connection.Memory != nil {
				warning("memory store selected; data is discarded when this process exits")
			}
			return nil
		},
	}
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse the fixture without writing anything",
		RunE: func(*cobra.Command, []string) error {
			dataset, err := loadDataset(opts.file)
			if err != nil {
				return err
			}

			section("Fixture")
			info("users        %d", len(dataset.Users))
			info("categories   %d", len(dataset.Categories))
			info("articles     %d", len(dataset.Articles))
			info("comments     %d", len(dataset.Comments))
			info("subscribers  %d", len(dataset.Subscribers))
			success("fixture is valid")
			return nil
		},
	}
}

func loadDataset(path string) (*seed.Dataset, error) {
	if path == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return seed.Parse(raw)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
}
