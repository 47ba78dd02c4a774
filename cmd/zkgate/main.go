package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/vocdoni/zkgate/api"
	"github.com/vocdoni/zkgate/clock"
	"github.com/vocdoni/zkgate/config"
	"github.com/vocdoni/zkgate/crypto/ethereum"
	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/metrics"
	"github.com/vocdoni/zkgate/pairing"
	"github.com/vocdoni/zkgate/requests"
	"github.com/vocdoni/zkgate/service"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/zkverifier"
	"go.vocdoni.io/dvote/db/metadb"
)

func main() {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "zkgate",
		Short: "zkgate runs the proof gate and the request controller behind an HTTP API",
		Long: `zkgate runs a ledger hosting two contracts: a verifier that registers
Groth16 verification keys and admits proofs, consuming their nullifiers, and a
request controller that accepts requests backed by admitted proofs and drives
them through their lifecycle.

Every flag can also be given as a ZKGATE_ prefixed environment variable, for
instance ZKGATE_APIPORT for --apiPort.`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnv(cmd.Flags()); err != nil {
				return err
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	cfg.BindFlags(cmd.Flags())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var errorOutput io.Writer
	if cfg.LogErrorFile != "" {
		f, err := os.OpenFile(cfg.LogErrorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open error log file: %w", err)
		}
		defer f.Close()
		errorOutput = f
	}
	log.Init(cfg.LogLevel, cfg.LogOutput, errorOutput)

	deployerKeys := ethereum.NewSignKeys()
	if err := deployerKeys.AddHexKey(cfg.DeployerKey); err != nil {
		return fmt.Errorf("invalid deployer key: %w", err)
	}
	deployer := deployerKeys.Address()
	admin := deployer
	if cfg.Admin != "" {
		admin = common.HexToAddress(cfg.Admin)
	}

	if err := os.MkdirAll(cfg.DBDir(), 0o750); err != nil {
		return fmt.Errorf("cannot create data directory: %w", err)
	}
	database, err := metadb.New(cfg.DBType, cfg.DBDir())
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	clk := clock.NewBlock(0, cfg.BlockInterval)
	stg := storage.New(database, clk)
	defer stg.Close()
	height, err := stg.SavedHeight()
	if err != nil {
		return fmt.Errorf("cannot read block height: %w", err)
	}
	clk.Set(height)
	stg.OnEvent(func(e *storage.Event) {
		metrics.EventEmitted(e.Contract, e.Name)
	})

	// contracts are deployed in a fixed order so their addresses are stable
	// across restarts with the same deployer key
	verifier, err := zkverifier.New(stg, pairing.BN254{})
	if err != nil {
		return fmt.Errorf("cannot deploy verifier: %w", err)
	}
	ctrl, err := requests.New(stg, admin)
	if err != nil {
		return fmt.Errorf("cannot deploy request controller: %w", err)
	}
	verifierAddr := stg.Directory().Deploy(deployer, verifier)
	requestsAddr := stg.Directory().Deploy(deployer, ctrl)
	log.Infow("contracts deployed",
		"deployer", deployer.Hex(),
		"verifier", verifierAddr.Hex(),
		"requests", requestsAddr.Hex(),
		"height", height)

	if err := bootstrap(cfg, verifier, ctrl, deployer, verifierAddr); err != nil {
		return err
	}

	clockService := service.NewClock(clk, stg)
	if err := clockService.Start(ctx); err != nil {
		return err
	}
	defer clockService.Stop()

	apiService := service.NewAPI(api.APIConfig{
		Host:         cfg.APIHost,
		Port:         cfg.APIPort,
		Storage:      stg,
		Verifier:     verifier,
		Requests:     ctrl,
		VerifierAddr: verifierAddr,
		RequestsAddr: requestsAddr,
	})
	if err := apiService.Start(ctx); err != nil {
		return err
	}
	defer apiService.Stop()

	<-ctx.Done()
	log.Infow("shutting down", "height", clk.Height())
	return nil
}

// bootstrap applies the one time settings of the configuration that are not
// set yet.
func bootstrap(cfg *config.Config, verifier *zkverifier.Verifier, ctrl *requests.Controller,
	deployer, verifierAddr common.Address,
) error {
	if cfg.Governance != "" {
		current, set, err := verifier.Governance()
		if err != nil {
			return err
		}
		gov := common.HexToAddress(cfg.Governance)
		switch {
		case !set:
			if err := verifier.SetGovernance(deployer, gov); err != nil {
				return fmt.Errorf("cannot set governance: %w", err)
			}
		case current != gov:
			log.Warnw("governance already set, ignoring configured one",
				"current", current.Hex(), "configured", gov.Hex())
		}
	}

	if !cfg.LinkVerifier {
		return nil
	}
	linked, err := ctrl.ProofVerifier()
	switch {
	case errors.Is(err, requests.ErrProofVerifierNotSet):
		if err := ctrl.SetProofVerifier(deployer, verifierAddr); err != nil {
			log.Warnw("could not link the verifier, the deployer is not the admin", "error", err.Error())
		}
	case err != nil:
		return err
	case linked != verifierAddr:
		log.Warnw("linked proof verifier is not the deployed verifier",
			"linked", linked.Hex(), "verifier", verifierAddr.Hex())
	}
	return nil
}
