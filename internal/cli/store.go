package cli

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/david-saint/ductiva/internal/constants"
	ductivaerrors "github.com/david-saint/ductiva/internal/errors"
	"github.com/david-saint/ductiva/internal/keyring"
	"github.com/david-saint/ductiva/internal/logger"
	"github.com/david-saint/ductiva/internal/storage"
	"github.com/david-saint/ductiva/internal/storage/postgres"
	"github.com/david-saint/ductiva/internal/storage/sqlite"
)

var resolveConnectionString = keyring.ResolveConnectionString

// OpenStore picks the backend for config. A PostgreSQL URL selects the
// PostgreSQL store and must not embed a password. When config is left at
// its default, a connection string from DUCTIVA_DB_CONNECTION or the OS
// keyring takes precedence over the local SQLite file.
func OpenStore(config string) (storage.Provider, error) {
	if postgres.IsConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, ductivaerrors.WithHint(
					errors.New("PostgreSQL connection strings with embedded credentials are not allowed"),
					"store it with 'ductiva keyring set', export "+keyring.ConnectionEnvVar+", or use a .pgpass file",
				)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	if config == "" || config == constants.DefaultConfigPath {
		connStr, source, err := resolveConnectionString()
		if err != nil {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		if connStr != "" {
			if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("connection string from %s: %w", source, err)
			}
			logger.Debug("Using PostgreSQL store", "source", source)
			return postgres.New(connStr), nil
		}
		if config == "" {
			config = constants.DefaultConfigPath
		}
	}

	return sqlite.NewStore(kong.ExpandPath(config)), nil
}
