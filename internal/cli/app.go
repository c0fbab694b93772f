package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/seedkeeper/internal/challenge"
	"github.com/dmitrijs2005/seedkeeper/internal/config"
	"github.com/dmitrijs2005/seedkeeper/internal/cryptox"
	"github.com/dmitrijs2005/seedkeeper/internal/logging"
	"github.com/dmitrijs2005/seedkeeper/internal/mnemonic"
	"github.com/dmitrijs2005/seedkeeper/internal/onboarding"
	"github.com/dmitrijs2005/seedkeeper/internal/policy"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
	"github.com/dmitrijs2005/seedkeeper/internal/services"
)

type App struct {
	config  *config.Config
	store   secretstore.Store
	deps    onboarding.Deps
	opts    onboarding.Options
	machine *onboarding.Machine
	keyring services.KeyringService
	backup  *services.BackupService
	log     logging.Logger

	walletExists bool

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured store and wires the services. The caller must
// Close the App.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, err := secretstore.Open(ctx, cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	app, err := newApp(ctx, cfg, store, mnemonic.NewBIP39Wallet(), log, os.Stdin, os.Stdout)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, store secretstore.Store, wallet mnemonic.Wallet,
	log logging.Logger, in io.Reader, out io.Writer) (*App, error) {

	rules := policy.DefaultRules()
	rules.MinScore = cfg.MinPasswordScore
	cipher := cryptox.NewCipher()

	a := &App{
		config: cfg,
		store:  store,
		deps: onboarding.Deps{
			Wallet:     wallet,
			Store:      store,
			Cipher:     cipher,
			Policy:     policy.New(rules),
			Challenges: challenge.NewGenerator(cfg.ChallengeWords),
			Logger:     log,
		},
		opts:    onboarding.Options{ReshuffleOnFailure: cfg.ReshuffleOnFailure},
		keyring: services.NewKeyringService(store, cipher, log),
		backup:  services.NewBackupService(store, cipher, wallet, cfg, log),
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
	}

	exists, err := a.keyring.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check stored wallet: %w", err)
	}
	a.walletExists = exists
	if !exists {
		if err := a.startOnboarding(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// startOnboarding replaces the current machine with a fresh one.
func (a *App) startOnboarding() error {
	if a.machine != nil {
		a.machine.Close()
	}
	m, err := onboarding.New(a.deps, a.opts)
	if err != nil {
		return err
	}
	a.machine = m
	return nil
}

func (a *App) hasWallet() bool {
	return a.walletExists
}

func (a *App) getStatus() string {
	if a.walletExists {
		return "(wallet)"
	}
	return fmt.Sprintf("(%s)", a.machine.State().Name())
}

// Run shows the first screen and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "seedkeeper (type 'help' for commands)")
	_ = a.Status(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close wipes the onboarding session and closes the store.
func (a *App) Close() error {
	if a.machine != nil {
		a.machine.Close()
	}
	return a.store.Close()
}

func (a *App) Status(ctx context.Context) error {
	if a.walletExists {
		return a.Address(ctx)
	}
	st, err := a.machine.Snapshot()
	renderState(a.out, st)
	if err != nil {
		fmt.Fprintln(a.out, "Last error:", describeError(err))
	}
	return nil
}
