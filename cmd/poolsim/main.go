package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"fiducialens/config"
	"fiducialens/core/events"
	corestate "fiducialens/core/state"
	coretypes "fiducialens/core/types"
	"fiducialens/crypto"
	nativecommon "fiducialens/native/common"
	"fiducialens/native/loanpool"
	"fiducialens/observability/logging"
	"fiducialens/storage"
)

const envVar = "FIDUCIALENS_ENV"

// simulated ledger time starts here and advances between operations.
const simulationStart uint64 = 1_700_000_000

// profile shapes a simulated participant, mirroring the demo wallet roster
// the pool was originally exercised with.
type profile struct {
	name        string
	depositMin  uint64
	depositMax  uint64
	borrowPct   uint64
	creditScore uint64
}

var profiles = []profile{
	{name: "conservative-saver", depositMin: 50_000, depositMax: 100_000, borrowPct: 30, creditScore: 85},
	{name: "active-trader", depositMin: 20_000, depositMax: 50_000, borrowPct: 60, creditScore: 72},
	{name: "whale-investor", depositMin: 200_000, depositMax: 500_000, borrowPct: 40, creditScore: 91},
	{name: "small-borrower", depositMin: 10_000, depositMax: 30_000, borrowPct: 50, creditScore: 55},
	{name: "balanced-user", depositMin: 40_000, depositMax: 80_000, borrowPct: 45, creditScore: 68},
}

// staticPauses exposes the config pause switch to the engine guard.
type staticPauses bool

var _ nativecommon.PauseView = staticPauses(false)

func (s staticPauses) IsPaused(string) bool { return bool(s) }

// logEmitter forwards pool events to the structured logger.
type logEmitter struct {
	logger *slog.Logger
}

func (l logEmitter) Emit(event events.Event) {
	payload, ok := event.(interface{ Event() *coretypes.Event })
	if !ok {
		l.logger.Info("pool event", "type", event.EventType())
		return
	}
	wire := payload.Event()
	args := make([]any, 0, 2*len(wire.Attributes))
	for key, value := range wire.Attributes {
		args = append(args, key, value)
	}
	l.logger.Info(wire.Type, args...)
}

func main() {
	configFile := flag.String("config", "", "Path to the configuration file (optional)")
	users := flag.Int("users", len(profiles), "Number of simulated participants")
	seed := flag.Int64("seed", 42, "Seed for the deterministic activity schedule")
	flag.Parse()

	logger := logging.Setup("poolsim", strings.TrimSpace(os.Getenv(envVar)))

	cfg, err := loadConfig(*configFile)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := openBackend(cfg)
	if err != nil {
		logger.Error("failed to open state backend", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := run(logger, cfg, db, *users, *seed); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if strings.TrimSpace(path) != "" {
		return config.Load(path)
	}
	cfg := &config.Config{}
	cfg.LoanPool.EnsureDefaults()
	cfg.Backend = config.BackendMemory
	return cfg, nil
}

func openBackend(cfg *config.Config) (storage.Database, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemDB(), nil
	case config.BackendLevelDB:
		return storage.NewLevelDB(filepath.Join(cfg.DataDir, "pool-leveldb"))
	case config.BackendBolt:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, err
		}
		return storage.NewBoltDB(filepath.Join(cfg.DataDir, "pool.bolt"))
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// poolAddress derives the pool treasury address from a fixed module label.
func poolAddress() crypto.Address {
	digest := ethcrypto.Keccak256([]byte("loanpool/treasury"))
	return crypto.MustNewAddress(crypto.FidPrefix, digest[12:])
}

func run(logger *slog.Logger, cfg *config.Config, db storage.Database, users int, seed int64) error {
	manager := corestate.NewManager(db)
	engine := loanpool.NewEngine(poolAddress())
	engine.SetState(manager)
	engine.SetEmitter(logEmitter{logger: logger})
	engine.SetPauses(staticPauses(cfg.LoanPool.Paused))

	if err := engine.Initialize(cfg.LoanPool); err != nil && !errors.Is(err, loanpool.ErrPoolExists) {
		return fmt.Errorf("initialize pool: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	now := simulationStart
	engine.SetNow(now)

	type participant struct {
		addr    crypto.Address
		profile profile
	}
	roster := make([]participant, 0, users)
	for i := 0; i < users; i++ {
		key, err := crypto.GeneratePrivateKey()
		if err != nil {
			return fmt.Errorf("generate participant key: %w", err)
		}
		addr := key.PubKey().Address()
		if err := engine.Register(addr); err != nil {
			return fmt.Errorf("register participant: %w", err)
		}
		roster = append(roster, participant{addr: addr, profile: profiles[i%len(profiles)]})
	}

	advance := func(seconds uint64) {
		now += seconds
		engine.SetNow(now)
	}

	// Phase 1: everyone posts collateral and draws a loan sized by profile.
	for _, p := range roster {
		deposit := p.profile.depositMin + uint64(rng.Int63n(int64(p.profile.depositMax-p.profile.depositMin+1)))
		if _, err := engine.Deposit(p.addr, deposit, companion(p.addr, engine, deposit)); err != nil {
			return fmt.Errorf("%s deposit: %w", p.profile.name, err)
		}
		advance(3_600)

		borrow := deposit * p.profile.borrowPct / 100
		if borrow > 0 {
			score := p.profile.creditScore
			if _, err := engine.Borrow(p.addr, borrow, &score); err != nil {
				logger.Warn("borrow rejected", "participant", p.profile.name, "amount", borrow, "error", err)
			}
		}
		advance(3_600)
	}

	// Phase 2: three months pass, then borrowers settle with interest.
	advance(90 * 24 * 3_600)
	for _, p := range roster[:len(roster)/2] {
		position, err := engine.PositionOf(p.addr)
		if err != nil {
			return fmt.Errorf("inspect position: %w", err)
		}
		if position.Debt == 0 {
			continue
		}
		accrued, err := loanpool.Accrue(position.Debt, position.LastInterestUpdate, now)
		if err != nil {
			return fmt.Errorf("accrue payoff: %w", err)
		}
		payoff := position.Debt + accrued
		if _, err := engine.Repay(p.addr, companion(p.addr, engine, payoff)); err != nil {
			return fmt.Errorf("%s repay: %w", p.profile.name, err)
		}
		if _, err := engine.Withdraw(p.addr, position.Collateral); err != nil {
			logger.Warn("withdraw rejected", "participant", p.profile.name, "error", err)
		}
		advance(3_600)
	}

	// Phase 3: push one borrower past the base ceiling and liquidate them.
	if len(roster) >= 2 {
		victim := roster[len(roster)-1]
		liquidator := roster[0]
		position, err := engine.PositionOf(victim.addr)
		if err != nil {
			return fmt.Errorf("inspect victim: %w", err)
		}
		if position.Collateral > 0 {
			score := uint64(95)
			target := position.Collateral * 60 / 100
			if target > position.Debt {
				if _, err := engine.Borrow(victim.addr, target-position.Debt, &score); err != nil {
					logger.Warn("top-up borrow rejected", "participant", victim.profile.name, "error", err)
				}
			}
			if _, err := engine.Liquidate(liquidator.addr, victim.addr); err != nil {
				logger.Warn("liquidation rejected", "target", victim.profile.name, "error", err)
			}
		}
	}

	// Final state dump, the library-side equivalent of the on-chain state probe.
	pool, err := engine.Pool()
	if err != nil {
		return fmt.Errorf("read pool state: %w", err)
	}
	logger.Info("pool state",
		"totalCollateral", pool.TotalCollateral,
		"totalBorrow", pool.TotalBorrow,
		"maxLTVBps", pool.MaxLTVBps,
		"interestRateBps", pool.InterestRateBps,
	)
	for _, p := range roster {
		position, err := engine.PositionOf(p.addr)
		if err != nil {
			return fmt.Errorf("read position: %w", err)
		}
		logger.Info("position",
			"participant", p.profile.name,
			"account", p.addr.String(),
			"collateral", position.Collateral,
			"debt", position.Debt,
			"creditScore", position.CreditScore,
		)
	}
	return nil
}

func companion(from crypto.Address, engine *loanpool.Engine, amount uint64) loanpool.Bundle {
	return loanpool.Bundle{Transfer: &loanpool.Transfer{
		From:   from,
		To:     engine.PoolAddress(),
		Amount: amount,
	}}
}
