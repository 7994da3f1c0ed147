// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Setting keys for vmctl itself, separate from the instance document
const (
	SettingConfigFile   = "config"
	SettingLogLevel     = "log.level"
	SettingLogDir       = "log.dir"
	SettingPollInterval = "poll.interval"
	SettingBootPause    = "boot.pause"
	SettingTimeout      = "timeout"
	SettingOutput       = "output"
	SettingNATSURL      = "events.nats_url"
	SettingTrace        = "trace.enabled"
	SettingMetricsAddr  = "metrics.addr"
)

// DefaultConfigFile is used when --config is not given
const DefaultConfigFile = "vm_config.json"

// Settings are the tool-level knobs resolved from flags and VMCTL_* env vars
type Settings struct {
	ConfigFile   string
	LogLevel     string
	LogDir       string
	PollInterval time.Duration
	BootPause    time.Duration
	// Timeout bounds each lifecycle command; zero waits indefinitely
	Timeout      time.Duration
	Output       string
	NATSURL      string
	TraceEnabled bool
	MetricsAddr  string
}

// NewViper returns a viper instance with defaults and env binding applied
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("VMCTL")
	// VMCTL_LOG_LEVEL for log.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every setting
func SetDefaults(v *viper.Viper) {
	v.SetDefault(SettingConfigFile, DefaultConfigFile)
	v.SetDefault(SettingLogLevel, "info")
	v.SetDefault(SettingLogDir, ".")
	v.SetDefault(SettingPollInterval, 2*time.Second)
	v.SetDefault(SettingBootPause, 5*time.Second)
	v.SetDefault(SettingTimeout, time.Duration(0))
	v.SetDefault(SettingOutput, "text")
	v.SetDefault(SettingNATSURL, "")
	v.SetDefault(SettingTrace, false)
	v.SetDefault(SettingMetricsAddr, "")
}

// LoadSettings resolves the typed settings from v
func LoadSettings(v *viper.Viper) Settings {
	return Settings{
		ConfigFile:   v.GetString(SettingConfigFile),
		LogLevel:     strings.ToLower(v.GetString(SettingLogLevel)),
		LogDir:       v.GetString(SettingLogDir),
		PollInterval: v.GetDuration(SettingPollInterval),
		BootPause:    v.GetDuration(SettingBootPause),
		Timeout:      v.GetDuration(SettingTimeout),
		Output:       strings.ToLower(v.GetString(SettingOutput)),
		NATSURL:      v.GetString(SettingNATSURL),
		TraceEnabled: v.GetBool(SettingTrace),
		MetricsAddr:  v.GetString(SettingMetricsAddr),
	}
}
