// Package config holds the configuration of the zkgate node. Every option
// is a command line flag that falls back to a ZKGATE_ prefixed environment
// variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/vocdoni/zkgate/log"
	"go.vocdoni.io/dvote/db"
)

// EnvPrefix is the prefix of the environment variables read as fallback of
// the flags.
const EnvPrefix = "ZKGATE_"

// Config is the configuration of the node.
type Config struct {
	DataDir string
	DBType  string

	APIHost string
	APIPort int

	LogLevel     string
	LogOutput    string
	LogErrorFile string

	// BlockInterval is the time between blocks of the ledger clock.
	BlockInterval time.Duration

	// DeployerKey is the hex private key the contracts are deployed with.
	// Contract addresses derive from it, and its address is the initial
	// admin of the request controller unless Admin is set.
	DeployerKey string
	Admin       string
	// Governance, if set, is configured as governance of the verifier on
	// first start.
	Governance string
	// LinkVerifier links the verifier as proof verifier of the request
	// controller on first start.
	LinkVerifier bool
}

// Default returns the default configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DataDir:       filepath.Join(home, ".zkgate"),
		DBType:        db.TypePebble,
		APIHost:       "0.0.0.0",
		APIPort:       9090,
		LogLevel:      log.LogLevelInfo,
		LogOutput:     "stdout",
		BlockInterval: 12 * time.Second,
		LinkVerifier:  true,
	}
}

// BindFlags registers the options of c in fs, using the current values of
// c as defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.DataDir, "datadir", "d", c.DataDir, "data directory")
	fs.StringVar(&c.DBType, "dbType", c.DBType, fmt.Sprintf("database type (%s or %s)", db.TypePebble, db.TypeLevelDB))
	fs.StringVar(&c.APIHost, "apiHost", c.APIHost, "API listen host")
	fs.IntVar(&c.APIPort, "apiPort", c.APIPort, "API listen port")
	fs.StringVarP(&c.LogLevel, "logLevel", "l", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogOutput, "logOutput", c.LogOutput, "log output (stdout, stderr or a file path)")
	fs.StringVar(&c.LogErrorFile, "logErrorFile", c.LogErrorFile, "file to write warnings and errors to")
	fs.DurationVar(&c.BlockInterval, "blockInterval", c.BlockInterval, "time between blocks")
	fs.StringVar(&c.DeployerKey, "deployerKey", c.DeployerKey, "hex private key the contracts are deployed with")
	fs.StringVar(&c.Admin, "admin", c.Admin, "initial admin of the request controller (defaults to the deployer)")
	fs.StringVar(&c.Governance, "governance", c.Governance, "governance identity of the verifier")
	fs.BoolVar(&c.LinkVerifier, "linkVerifier", c.LinkVerifier, "link the verifier as proof verifier of the request controller")
}

// EnvName returns the environment variable read for the flag name, e.g.
// ZKGATE_APIPORT for apiPort.
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// LoadEnv sets every flag of fs not given on the command line from its
// environment variable, if present.
func LoadEnv(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		v, ok := os.LookupEnv(EnvName(f.Name))
		if !ok {
			return
		}
		if serr := fs.Set(f.Name, v); serr != nil {
			err = fmt.Errorf("%s: %w", EnvName(f.Name), serr)
		}
	})
	return err
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("empty data directory")
	}
	if c.DBType != db.TypePebble && c.DBType != db.TypeLevelDB {
		return fmt.Errorf("unsupported database type %q", c.DBType)
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid API port %d", c.APIPort)
	}
	switch c.LogLevel {
	case log.LogLevelDebug, log.LogLevelInfo, log.LogLevelWarn, log.LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.BlockInterval <= 0 {
		return fmt.Errorf("invalid block interval %s", c.BlockInterval)
	}
	if c.DeployerKey == "" {
		return fmt.Errorf("missing deployer key")
	}
	for name, addr := range map[string]string{"admin": c.Admin, "governance": c.Governance} {
		if addr != "" && !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address %q", name, addr)
		}
	}
	return nil
}

// DBDir returns the directory of the database.
func (c *Config) DBDir() string {
	return filepath.Join(c.DataDir, "db")
}
