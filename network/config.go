package network

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config groups the integer configuration keys of the routing core: the
// hypercube/PolarFly port counts that size the topology, the VC partition
// width, and the fault-injection parameters.
type Config struct {
	K            int    `yaml:"k"`            // hypercube-port count H
	N            int    `yaml:"n"`            // PolarFly-port count P; selects the ConnectionTable
	NumVCs       int    `yaml:"num_vcs"`       // total VCs, 2V
	LinkFailures int    `yaml:"link_failures"` // routers to mark node-down
	FailSeed     string `yaml:"fail_seed"`     // integer literal, or "time" for wall-clock
}

// Validate checks that Config names a supported ConnectionTable size and a
// sane VC partition.
func (c Config) Validate() error {
	if c.K <= 0 {
		return fmt.Errorf("network: config: k (hypercube dimension) must be positive, got %d", c.K)
	}
	if _, err := SelectConnectionTable(c.N); err != nil {
		return err
	}
	if c.NumVCs <= 0 || c.NumVCs%2 != 0 {
		return fmt.Errorf("network: config: num_vcs must be a positive even number, got %d", c.NumVCs)
	}
	if c.LinkFailures < 0 {
		return fmt.Errorf("network: config: link_failures must be non-negative, got %d", c.LinkFailures)
	}
	return nil
}

// V returns the per-class VC half-width (num_vcs / 2).
func (c Config) V() int {
	return c.NumVCs / 2
}

// ResolveSeed parses FailSeed into the int64 fault-injection master seed.
// The literal "time" (and an empty value) fall back to the wall clock, as
// InsertRandomFaults does in the original source when fail_seed=="time".
func (c Config) ResolveSeed() int64 {
	if c.FailSeed == "" || c.FailSeed == "time" {
		return time.Now().UnixNano()
	}
	seed, err := strconv.ParseInt(c.FailSeed, 10, 64)
	if err != nil {
		return time.Now().UnixNano()
	}
	return seed
}

// LoadConfig reads and parses a YAML topology/fault-injection configuration
// file, mirroring sim/workload.LoadWorkloadSpec's strict-decode style.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("network: reading config: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("network: parsing config: %w", err)
	}
	return &cfg, nil
}
