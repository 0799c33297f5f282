package cli

import (
	"fmt"

	filestore "github.com/q-beau/NBS-TP/internal/adapters/file"
	redisstore "github.com/q-beau/NBS-TP/internal/adapters/redis"
	sqlitestore "github.com/q-beau/NBS-TP/internal/adapters/sqlite"
	"github.com/q-beau/NBS-TP/internal/config"
	"github.com/q-beau/NBS-TP/pkg/adapters/memory"
	"github.com/q-beau/NBS-TP/pkg/domain"
	"github.com/q-beau/NBS-TP/pkg/ports"
)

// openStore builds the configured run archive. An empty driver returns a
// nil store, which disables archiving. The returned closer is nil for
// backends with nothing to release.
func openStore(cfg config.Store) (ports.RunStore, func() error, error) {
	switch cfg.Driver {
	case "":
		return nil, nil, nil
	case "memory":
		return memory.NewStore(), nil, nil
	case "file":
		return filestore.New(cfg.Dir), nil, nil
	case "redis":
		var opts []redisstore.Option
		if cfg.Prefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.Prefix))
		}
		s := redisstore.New(cfg.Addr, "", 0, opts...)
		return s, s.Close, nil
	case "sqlite":
		s, err := sqlitestore.New(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite archive: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store driver %q", domain.ErrInvalidInput, cfg.Driver)
	}
}
