// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/sharedmemory/cmd/simulator/node"
	"github.com/ava-labs/sharedmemory/cmd/simulator/worker"
	"github.com/ava-labs/sharedmemory/config"
	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/precompile/contracts/sharedmemory"
	"github.com/ava-labs/sharedmemory/utils/logging"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	rootCmd := newCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "simulator failed %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "simulator",
		Short:        "Moves AVAX between chains through shared memory",
		SuggestFor:   []string{"simulators"},
		SilenceUsage: true,
		RunE:         runFunc,
	}
	cmd.PersistentFlags().AddFlagSet(config.BuildFlagSet())
	cmd.AddCommand(newGenesisCommand())
	return cmd
}

func newGenesisCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis",
		Short: "Prints the genesis the simulated chains start from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			genesis, _, err := simulatorGenesis(cfg)
			if err != nil {
				return err
			}
			genesisJSON, err := json.MarshalIndent(genesis, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(genesisJSON))
			return err
		},
	}
}

func getConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	return config.GetConfig(v)
}

// simulatorGenesis funds the workers on top of the configured genesis, which
// enables the shared memory precompile from the start by default.
func simulatorGenesis(cfg config.Config) (*core.Genesis, []*ecdsa.PrivateKey, error) {
	base := cfg.Genesis
	if base == nil {
		zero := uint64(0)
		base = &core.Genesis{
			Config: core.UpgradeConfig{
				PrecompileUpgrades: []core.PrecompileUpgrade{
					{Config: sharedmemory.NewConfig(&zero)},
				},
			},
		}
	}
	keys, err := worker.Keys(cfg.SimulatorConfig.Concurrency)
	if err != nil {
		return nil, nil, err
	}
	return worker.FundedGenesis(base, keys, cfg.SimulatorConfig.Amount), keys, nil
}

func runFunc(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}

	logFactory := logging.NewFactory(cfg.LoggingConfig)
	defer logFactory.Close()

	log, err := logFactory.Make("main")
	if err != nil {
		return err
	}
	defer log.StopOnPanic()

	genesis, keys, err := simulatorGenesis(cfg)
	if err != nil {
		return err
	}

	n, err := node.New(cfg, genesis, logFactory)
	if err != nil {
		return err
	}
	defer func() {
		if err := n.Close(); err != nil {
			log.Error("failed to close node", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	log.Info("launching simulator",
		zap.Int("workers", cfg.SimulatorConfig.Concurrency),
		zap.Int("rounds", cfg.SimulatorConfig.Rounds),
		zap.Uint64("amount", cfg.SimulatorConfig.Amount),
	)

	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServing := context.WithCancel(gctx)
	if cfg.HTTPConfig.Port != 0 {
		g.Go(func() error {
			return n.Serve(serveCtx)
		})
	}
	g.Go(func() error {
		defer stopServing()
		return worker.Run(gctx, log, worker.Config{
			Rounds:      cfg.SimulatorConfig.Rounds,
			Amount:      cfg.SimulatorConfig.Amount,
			Concurrency: cfg.SimulatorConfig.Concurrency,
		}, n.Chains(), keys)
	})
	err = g.Wait()
	stopServing()
	if errors.Is(err, context.Canceled) {
		log.Info("simulator interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	for _, chain := range n.Chains() {
		lastAccepted := chain.LastAccepted()
		log.Info("simulation complete",
			zap.String("chain", chain.Alias),
			zap.Uint64("height", lastAccepted.Height),
		)
	}
	return nil
}
