package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataDirName   = ".questlog"
	logFileName   = "questlog.log"
	defaultKey    = "questlog"
	backendFile   = "file"
	backendSQLite = "sqlite"
	backendMemory = "memory"
	envStore      = "QUESTLOG_STORE"
	envDir        = "QUESTLOG_DIR"
	envKey        = "QUESTLOG_KEY"
	envLogFile    = "QUESTLOG_LOG"
	envLogLevel   = "QUESTLOG_LOG_LEVEL"
)

// options are the persistent command-line settings shared by every subcommand.
type options struct {
	Store    string
	Dir      string
	Key      string
	LogFile  string
	LogLevel string
	NoColor  bool
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

// dataDir is where state and logs live unless --dir says otherwise.
func (o *options) dataDir() (string, error) {
	if strings.TrimSpace(o.Dir) != "" {
		return o.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dataDirName), nil
}

func (o *options) logPath() (string, error) {
	if strings.TrimSpace(o.LogFile) != "" {
		return o.LogFile, nil
	}
	dir, err := o.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}

func (o *options) key() string {
	if k := strings.TrimSpace(o.Key); k != "" {
		return k
	}
	return defaultKey
}

// openKV opens the configured persistence backend.
func (o *options) openKV(ctx context.Context) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(o.Store)) {
	case "", backendFile:
		if err := checkFileKey(o.key()); err != nil {
			return nil, err
		}
		dir, err := o.dataDir()
		if err != nil {
			return nil, err
		}
		return newFileKV(dir)
	case backendSQLite:
		dir, err := o.dataDir()
		if err != nil {
			return nil, err
		}
		return newSQLiteKV(ctx, dir)
	case backendMemory:
		return newMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store %q (want %s, %s or %s)", o.Store, backendFile, backendSQLite, backendMemory)
	}
}
