package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "BOOKWISE"

var Opts *Options

// GetConfig loads options from defaults and BOOKWISE_* environment
// variables only.
func GetConfig() (*Options, error) {
	return Load("")
}

// Load builds the options from defaults, the optional config file and
// BOOKWISE_* environment variables, in increasing priority.
func Load(file string) (*Options, error) {
	for key, value := range defaultsMap() {
		viper.SetDefault(key, value)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	GetDefaultOptions()
	if file != "" {
		if _, err := ParseFile(file); err != nil {
			return nil, err
		}
	} else if err := viper.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode options")
	}

	return Finalize(Opts)
}

// Finalize resolves the data directory and derived paths. It is called again
// after command line flags override loaded values.
func Finalize(opts *Options) (*Options, error) {
	dataDir, err := checkDataDir(opts.Data)
	if err != nil {
		return nil, errors.Wrap(err, "error checking data directory")
	}
	opts.Data = dataDir
	if opts.DSN == "" || opts.DSN == defaultDSN {
		opts.DSN = filepath.Join(opts.Data, "bookwise.db")
	}
	if opts.PublicURL == "" {
		host := opts.Host
		if host == "" || host == defaultHost {
			host = "localhost"
		}
		opts.PublicURL = fmt.Sprintf("http://%s:%d", host, opts.Port)
	}
	opts.PublicURL = strings.TrimRight(opts.PublicURL, "/")

	Opts = opts
	return opts, nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err == nil {
		return dataDir, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	err := os.MkdirAll(dataDir, 0755)
	if err == nil {
		return dataDir, nil
	}
	if !errors.Is(err, os.ErrPermission) || dataDir != defaultData {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}

	// Permission denied on the default location, fall back to the user's home directory
	currentUser, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "unable to get current user")
	}
	if currentUser.HomeDir == "" {
		return "", errors.New("unable to get home directory")
	}
	homeData := filepath.Join(currentUser.HomeDir, ".bookwise")
	if err := os.MkdirAll(homeData, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create default data folder %s", homeData)
	}
	return homeData, nil
}

func ParseFile(file string) (*Options, error) {
	// Check if file exists
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Wrapf(err, "unable to access config file %s", file)
	}
	if Opts == nil {
		GetDefaultOptions()
	}

	viper.SetConfigFile(file)
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}
	err = viper.Unmarshal(Opts)
	if err != nil {
		return nil, err
	}
	return Opts, nil
}
