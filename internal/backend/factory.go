package backend

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"brancoapp/internal/adapters"
	"brancoapp/internal/amqp"
	"brancoapp/internal/store/memory"
	"brancoapp/internal/store/sqlite"
)

// Factory builds stores from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend builds the configured store. With an AMQP URL set, writes
// are mirrored onto the change exchange through a PublishingStore; a broker
// that is down at startup only logs a warning, the store still works.
func (f *Factory) CreateBackend(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case MemoryBackend:
		return f.createMemory(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	st, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
	}

	result := &Result{
		Store:   st,
		Cleanup: st.Close,
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change publishing", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			result.Store = adapters.NewPublishingStore(st, client)
			result.Publisher = client
			result.Cleanup = func() error {
				var errs *multierror.Error
				errs = multierror.Append(errs, client.Close())
				errs = multierror.Append(errs, st.Close())
				return errs.ErrorOrNil()
			}
		}
	}

	f.logger.Info("Initialized sqlite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", result.Publisher != nil)
	return result, nil
}

func (f *Factory) createMemory(_ Config) (*Result, error) {
	st := memory.New()
	f.logger.Info("Initialized memory backend")
	return &Result{Store: st, Cleanup: st.Close}, nil
}
