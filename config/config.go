// Package config holds the settings of a translation run. Settings come from
// defaults, then a .env file, then VMSIM_* environment variables, then
// command-line flags, each overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
)

// Config is the configuration of one run.
type Config struct {
	BackingStorePath string
	AddressPath      string

	Policy           replacement.Kind
	NumFrames        int
	NumTLBEntries    int
	TLBRetarget      bool
	ConsistencyCheck bool
	SkipInvalid      bool

	RecordPath  string
	Record      bool
	Monitor     bool
	MonitorPort int
	OpenBrowser bool
	Verbose     bool
}

// Default returns the configuration of the classic exercise: 256 frames, a
// 16-entry TLB and FIFO replacement.
func Default() Config {
	return Config{
		Policy:        replacement.FIFO,
		NumFrames:     vm.NumFrames,
		NumTLBEntries: vm.NumTLBEntries,
	}
}

// Load returns the default configuration overridden by the variables in
// envFile, if it exists, and by the process environment.
func Load(envFile string) (Config, error) {
	c := Default()

	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, os.ErrNotExist):
		default:
			return c, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}

		v, ok := fileVars[key]

		return v, ok
	}

	if err := c.applyEnv(lookup); err != nil {
		return c, err
	}

	return c, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup("VMSIM_POLICY"); ok {
		kind, err := replacement.ParseKind(v)
		if err != nil {
			return fmt.Errorf("VMSIM_POLICY: %w", err)
		}

		c.Policy = kind
	}

	if v, ok := lookup("VMSIM_BACKING_STORE"); ok {
		c.BackingStorePath = v
	}

	if v, ok := lookup("VMSIM_ADDRESSES"); ok {
		c.AddressPath = v
	}

	if v, ok := lookup("VMSIM_RECORD_PATH"); ok {
		c.RecordPath = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"VMSIM_FRAMES", &c.NumFrames},
		{"VMSIM_TLB_ENTRIES", &c.NumTLBEntries},
		{"VMSIM_MONITOR_PORT", &c.MonitorPort},
	}
	for _, i := range ints {
		if err := parseInt(lookup, i.key, i.dst); err != nil {
			return err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"VMSIM_TLB_RETARGET", &c.TLBRetarget},
		{"VMSIM_CONSISTENCY_CHECK", &c.ConsistencyCheck},
		{"VMSIM_SKIP_INVALID", &c.SkipInvalid},
		{"VMSIM_RECORD", &c.Record},
		{"VMSIM_MONITOR", &c.Monitor},
		{"VMSIM_OPEN_BROWSER", &c.OpenBrowser},
		{"VMSIM_VERBOSE", &c.Verbose},
	}
	for _, b := range bools {
		if err := parseBool(lookup, b.key, b.dst); err != nil {
			return err
		}
	}

	return nil
}

func parseInt(lookup lookupFunc, key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	*dst = n

	return nil
}

func parseBool(lookup lookupFunc, key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	*dst = b

	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.BackingStorePath == "" {
		return errors.New("backing store path is required")
	}

	if c.AddressPath == "" {
		return errors.New("address file path is required")
	}

	if c.NumFrames <= 0 {
		return fmt.Errorf("number of frames must be positive, got %d",
			c.NumFrames)
	}

	if c.NumTLBEntries <= 0 {
		return fmt.Errorf("number of TLB entries must be positive, got %d",
			c.NumTLBEntries)
	}

	if c.MonitorPort != 0 && (c.MonitorPort < 1024 || c.MonitorPort > 65535) {
		return fmt.Errorf("monitor port %d is outside [1024, 65535]",
			c.MonitorPort)
	}

	return nil
}
