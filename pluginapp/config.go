// Package pluginapp is the bootstrap/config layer (component J): it parses
// the one recognized config-file key and the one plugin option, loads TLS
// identity material, wires components A-I together, and runs the stdio
// plugin protocol loop plus every background task. Grounded on
// daemon/lnd.go's Main (option parsing, TLS setup, task spawning) and the
// original config.rs (the config-file search and cltv-delta parsing
// semantics it mirrors exactly).
package pluginapp

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// defaultCltvDelta is the safety margin used when the config file
	// doesn't set cltv-delta.
	defaultCltvDelta uint16 = 40

	// disabledGRPCPort is the sentinel grpc-hodl-port value meaning the
	// plugin should refuse to start: no gRPC surface was requested.
	disabledGRPCPort = -1

	configFileName = "config"
)

// Config is the plugin's fully resolved configuration.
type Config struct {
	CltvDelta  uint16
	GRPCPort   int
	LightningDir string
	RPCFile      string
}

// DefaultConfig returns a Config with the spec's defaults: cltv-delta 40,
// grpc-hodl-port disabled.
func DefaultConfig() Config {
	return Config{
		CltvDelta: defaultCltvDelta,
		GRPCPort:  disabledGRPCPort,
		RPCFile:   "lightning-rpc",
	}
}

// ReadConfigFile locates and parses the host's config file: first
// lightningDir/config, then its parent's config if the first isn't there.
// Only cltv-delta is recognized; every other line is ignored. A present but
// unparseable cltv-delta value is a fatal configuration error.
func (c *Config) ReadConfigFile(lightningDir string) error {
	raw, err := ioutil.ReadFile(filepath.Join(lightningDir, configFileName))
	if err != nil {
		parent := filepath.Dir(lightningDir)
		raw, err = ioutil.ReadFile(filepath.Join(parent, configFileName))
		if err != nil {
			// No config file is not an error: cltv-delta simply
			// keeps its default.
			return nil
		}
	}

	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.Contains(line, "=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name, value := parts[0], parts[1]
		if name != "cltv-delta" {
			continue
		}

		n, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return fmt.Errorf("could not parse a number from %q for cltv-delta: %v", value, err)
		}
		c.CltvDelta = uint16(n)
	}

	return nil
}

// GRPCEnabled reports whether grpc-hodl-port was configured to something
// other than the disabled sentinel.
func (c *Config) GRPCEnabled() bool {
	return c.GRPCPort != disabledGRPCPort
}
