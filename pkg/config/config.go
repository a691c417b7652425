package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

// Validator is implemented by config structs that check their own invariants
// after the environment has been processed.
type Validator interface {
	Validate() error
}

var (
	envFilePath string
	flagOnce    sync.Once

	exportMu sync.Mutex
	exported = map[string]error{}
)

func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New exports the env file (the -env flag, ENV_FILE, or ./.env when present)
// and fills a T from variables under prefix. Variables already present in the
// process environment win over the file.
func New[T any](prefix string) (*T, error) {
	if err := exportEnvFile(); err != nil {
		return nil, err
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("config %q: %w", prefix, err)
	}
	if v, ok := any(&conf).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("config %q: %w", prefix, err)
		}
	}
	return &conf, nil
}

func exportEnvFile() error {
	path, explicit := resolveEnvPath()
	if !explicit {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
	}

	exportMu.Lock()
	defer exportMu.Unlock()
	if err, done := exported[path]; done {
		return err
	}
	err := exportEnvironment(path)
	if err != nil {
		err = fmt.Errorf("load env file %s: %w", path, err)
	}
	exported[path] = err
	return err
}

func resolveEnvPath() (string, bool) {
	flagOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFilePath, "env", "", "path to .env file")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	if p := strings.TrimSpace(envFilePath); p != "" {
		return p, true
	}
	if p := strings.TrimSpace(os.Getenv("ENV_FILE")); p != "" {
		return p, true
	}
	return defaultEnvFile, false
}

func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
