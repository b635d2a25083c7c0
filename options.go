package splitter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
)

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

// registryConfig holds configuration for NewRegistry.
type registryConfig struct {
	logger       log.Logger
	initCodeHash common.Hash
	registerer   prometheus.Registerer
}

// defaultRegistryConfig returns the default registry configuration.
func defaultRegistryConfig() *registryConfig {
	return &registryConfig{
		logger:       log.Root(),
		initCodeHash: DefaultInitCodeHash,
	}
}

// WithLogger sets the logger for the registry and the holders it creates.
// A nil logger keeps the default (log.Root()).
func WithLogger(logger log.Logger) RegistryOption {
	return func(c *registryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitCodeHash sets the holder creation code fingerprint used for
// address derivation. It must match the deployed holder bytecode when the
// registry mirrors an on-chain splitter.
func WithInitCodeHash(hash common.Hash) RegistryOption {
	return func(c *registryConfig) {
		if hash != (common.Hash{}) {
			c.initCodeHash = hash
		}
	}
}

// WithMetrics registers the registry's operation metrics on reg.
// Without it, metrics are collected but not exported.
func WithMetrics(reg prometheus.Registerer) RegistryOption {
	return func(c *registryConfig) {
		c.registerer = reg
	}
}
