package config

import "dailyproxy-api/pkg/confkit"

// MustLoadDefault loads etc/dailyproxy.yaml from the project root.
func MustLoadDefault() *Config {
	return MustLoad(confkit.MustProjectPath("etc/dailyproxy.yaml"))
}
