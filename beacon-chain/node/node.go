// Package node is the main service which launches a beacon node and manages
// the lifecycle of all its associated services at runtime, such as the
// execution engine connection and payload verification, gracefully closing
// them if the process ends.
package node

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/async"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/blockchain"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/db/kv"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/execution"
	"github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice"
	doublylinkedtree "github.com/prysmaticlabs/enginebridge/beacon-chain/forkchoice/doubly-linked-tree"
	"github.com/prysmaticlabs/enginebridge/cmd"
	executioncmd "github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/execution"
	"github.com/prysmaticlabs/enginebridge/cmd/beacon-chain/flags"
	"github.com/prysmaticlabs/enginebridge/monitoring/prometheus"
	"github.com/prysmaticlabs/enginebridge/runtime"
	"github.com/prysmaticlabs/enginebridge/time/slots"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// serviceFlagOpts holds service options derived from CLI flags, overridable for tests.
type serviceFlagOpts struct {
	blockchainFlagOpts     []blockchain.Option
	executionChainFlagOpts []execution.Option
}

// BeaconNode defines a struct that handles the services running a random beacon chain
// full PoS node. It handles the lifecycle of the entire system and registers
// services to a service registry.
type BeaconNode struct {
	cliCtx          *cli.Context
	ctx             context.Context
	cancel          context.CancelFunc
	services        *runtime.ServiceRegistry
	lock            sync.RWMutex
	stop            chan struct{} // Channel to wait for termination notifications.
	db              db.Database
	forkChoiceStore forkchoice.ForkChoicer
	executor        *async.Executor
	clock           *slots.Clock
	serviceFlagOpts *serviceFlagOpts
	stdin           io.Reader
	stdout          io.Writer
}

// New creates a new node instance, sets up configuration options, and registers
// every required service to the node.
func New(cliCtx *cli.Context, opts ...Option) (*BeaconNode, error) {
	if err := configureChainConfig(cliCtx); err != nil {
		return nil, err
	}
	if err := configureExecutionSetting(cliCtx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cliCtx.Context)
	beacon := &BeaconNode{
		cliCtx:          cliCtx,
		ctx:             ctx,
		cancel:          cancel,
		services:        runtime.NewServiceRegistry(),
		stop:            make(chan struct{}),
		serviceFlagOpts: &serviceFlagOpts{},
		stdin:           os.Stdin,
		stdout:          os.Stdout,
	}
	for _, opt := range opts {
		if err := opt(beacon); err != nil {
			cancel()
			return nil, err
		}
	}

	if beacon.serviceFlagOpts.executionChainFlagOpts == nil {
		executionOpts, err := executioncmd.FlagOptions(cliCtx)
		if err != nil {
			cancel()
			return nil, err
		}
		beacon.serviceFlagOpts.executionChainFlagOpts = executionOpts
	}

	log.Debugln("Starting DB")
	if err := beacon.startDB(cliCtx); err != nil {
		cancel()
		return nil, err
	}

	beacon.startForkChoice()
	beacon.startSlotClock(cliCtx)
	beacon.executor = async.NewExecutor(ctx, int64(cliCtx.Int(flags.MaxBlockingTasksFlag.Name)))

	log.Debugln("Registering execution chain service")
	if err := beacon.registerExecutionService(); err != nil {
		beacon.abort()
		return nil, err
	}

	log.Debugln("Registering blockchain service")
	if err := beacon.registerBlockchainService(); err != nil {
		beacon.abort()
		return nil, err
	}

	if !cliCtx.Bool(flags.DisableMonitoringFlag.Name) {
		log.Debugln("Registering prometheus service")
		if err := beacon.registerPrometheusService(cliCtx); err != nil {
			beacon.abort()
			return nil, err
		}
	}

	return beacon, nil
}

// abort releases what New acquired before a registration failed.
func (b *BeaconNode) abort() {
	b.executor.Stop()
	if err := b.db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}
	b.cancel()
}

// Start launches every registered service and blocks until Close runs.
func (b *BeaconNode) Start() {
	b.lock.Lock()
	log.WithFields(logrus.Fields{
		"genesisTime": b.clock.GenesisTime().Unix(),
		"currentSlot": b.clock.CurrentSlot(),
	}).Info("Starting beacon node")
	b.services.StartAll()
	stop := b.stop
	b.lock.Unlock()

	go b.closeOnInterrupt()
	<-stop
}

// closeOnInterrupt closes the node on the first SIGINT or SIGTERM and
// panics once ten more arrive while shutdown is still running.
func (b *BeaconNode) closeOnInterrupt() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	<-sigc
	log.Info("Got interrupt, shutting down...")
	go b.Close()
	for remaining := 10; remaining > 0; remaining-- {
		<-sigc
		log.WithField("times", remaining-1).Info("Already shutting down, interrupt more to panic")
	}
	panic("Panic closing the beacon node")
}

// Close handles graceful shutdown of the system.
func (b *BeaconNode) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	log.Info("Stopping beacon node")
	if err := b.services.StopAll(); err != nil {
		log.WithError(err).Error("Failed to stop services")
	}
	b.executor.Stop()
	if err := b.db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}
	b.cancel()
	close(b.stop)
}

func (b *BeaconNode) startForkChoice() {
	b.forkChoiceStore = doublylinkedtree.New()
}

func (b *BeaconNode) startSlotClock(cliCtx *cli.Context) {
	genesis := time.Unix(int64(cliCtx.Uint64(flags.GenesisTimeFlag.Name)), 0) // #nosec G115
	b.clock = slots.NewClock(genesis)
}

func (b *BeaconNode) startDB(cliCtx *cli.Context) error {
	dbPath := filepath.Join(cliCtx.String(cmd.DataDirFlag.Name), kv.BeaconNodeDbDirName)
	var opts []kv.KVStoreOption
	if cliCtx.IsSet(flags.BlockCacheSizeFlag.Name) {
		opts = append(opts, kv.WithBlockCacheSize(int64(cliCtx.Int(flags.BlockCacheSizeFlag.Name))))
	}
	log.WithField("databasePath", dbPath).Info("Checking DB")

	d, err := db.NewDB(b.ctx, dbPath, opts...)
	if err != nil {
		return errors.Wrap(err, "could not open database")
	}
	wipe, err := b.shouldClearDB(cliCtx)
	if err != nil {
		if closeErr := d.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Failed to close database")
		}
		return err
	}
	if wipe {
		log.Warning("Removing database")
		if err := d.ClearDB(); err != nil {
			return errors.Wrap(err, "could not clear database")
		}
		if d, err = db.NewDB(b.ctx, dbPath, opts...); err != nil {
			return errors.Wrap(err, "could not create new database")
		}
	}
	b.db = d
	return nil
}

// shouldClearDB honours --force-clear-db outright and asks before acting on --clear-db.
func (b *BeaconNode) shouldClearDB(cliCtx *cli.Context) (bool, error) {
	switch {
	case cliCtx.Bool(cmd.ForceClearDB.Name):
		return true, nil
	case cliCtx.Bool(cmd.ClearDB.Name):
		ok, err := confirmDelete(b.stdin, b.stdout)
		if err != nil {
			return false, errors.Wrap(err, "could not confirm database deletion")
		}
		return ok, nil
	default:
		return false, nil
	}
}

func (b *BeaconNode) registerExecutionService() error {
	opts := append(b.serviceFlagOpts.executionChainFlagOpts, execution.WithDatabase(b.db))
	web3Service, err := execution.NewService(b.ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "could not register execution chain service")
	}
	return b.services.RegisterService(web3Service)
}

func (b *BeaconNode) registerBlockchainService() error {
	var web3Service *execution.Service
	if err := b.services.FetchService(&web3Service); err != nil {
		return err
	}

	opts := append(b.serviceFlagOpts.blockchainFlagOpts,
		blockchain.WithExecutionEngineCaller(web3Service),
		blockchain.WithForkChoiceStore(b.forkChoiceStore),
		blockchain.WithDatabase(b.db),
		blockchain.WithSlotClock(b.clock),
		blockchain.WithExecutor(b.executor),
	)
	blockchainService, err := blockchain.NewService(b.ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "could not register blockchain service")
	}
	return b.services.RegisterService(blockchainService)
}

func (b *BeaconNode) registerPrometheusService(cliCtx *cli.Context) error {
	var web3Service *execution.Service
	if err := b.services.FetchService(&web3Service); err != nil {
		return err
	}
	engineHandler := prometheus.Handler{
		Path: "/engine",
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			if _, err := fmt.Fprintln(w, web3Service.EngineStatus().String()); err != nil {
				log.WithError(err).Error("Could not write engine status")
			}
		},
	}
	service := prometheus.NewService(
		fmt.Sprintf("%s:%d", cliCtx.String(flags.MonitoringHostFlag.Name), cliCtx.Int(flags.MonitoringPortFlag.Name)),
		b.services,
		engineHandler,
	)
	return b.services.RegisterService(service)
}
