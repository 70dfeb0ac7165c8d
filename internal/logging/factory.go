package logging

import (
	"fmt"
	"sync"

	"jobsearch-api/internal/config"
	"jobsearch-api/internal/logging/adapters"
	"jobsearch-api/internal/logging/types"
)

var (
	globalLogger *MultiLogger
	globalMu     sync.RWMutex
)

// Initialize builds the global logger from configuration. Without adapter
// configuration it falls back to a single stdout adapter using the legacy
// level/format settings.
func Initialize(cfg *config.Config) error {
	logger := NewMultiLogger()
	logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	adapterConfigs := cfg.Logging.Adapters
	if len(adapterConfigs) == 0 {
		adapterConfigs = []config.AdapterConfig{{
			Name:    "console",
			Type:    "stdout",
			Enabled: true,
			Options: map[string]any{"format": cfg.Logging.Format},
		}}
	}

	for _, ac := range adapterConfigs {
		if !ac.Enabled {
			continue
		}

		adapter, err := createAdapter(ac)
		if err != nil {
			return fmt.Errorf("failed to create %s adapter: %w", ac.Name, err)
		}
		if err := logger.AddAdapter(adapter); err != nil {
			return err
		}
	}

	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
	return nil
}

// GetGlobalLogger returns the process-wide logger. Before Initialize it
// returns a stdout JSON logger so early callers never get nil.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()

	if logger != nil {
		return logger
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewMultiLogger()
		globalLogger.AddAdapter(adapters.NewStdoutAdapter("console", adapters.StdoutConfig{Format: "json"}))
	}
	return globalLogger
}

// Shutdown closes every adapter on the global logger
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Close()
	globalLogger = nil
	return err
}

func createAdapter(ac config.AdapterConfig) (types.LogAdapter, error) {
	switch ac.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(ac.Name, adapters.StdoutConfig{
			Format: stringOption(ac.Options, "format", "json"),
		}), nil
	case "file":
		return adapters.NewFileAdapter(ac.Name, adapters.FileConfig{
			FilePath: stringOption(ac.Options, "file_path", ""),
			Format:   stringOption(ac.Options, "format", "json"),
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", ac.Type)
	}
}

func stringOption(options map[string]any, key, fallback string) string {
	if v, ok := options[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
