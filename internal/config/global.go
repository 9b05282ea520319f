package config

import "sync"

//nolint:gochecknoglobals // Process-wide configuration set once during CLI startup.
var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// SetGlobalConfig installs the process-wide configuration. Called once from
// the root command's PersistentPreRunE after loading and validation.
func SetGlobalConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// GetGlobalConfig returns the process-wide configuration, or nil before
// startup has installed one.
func GetGlobalConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalCfg
}
