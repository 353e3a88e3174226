package web

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment overrides shared by the display and the simulator.
const (
	EnvListenAddr = "MINIDISPLAY_LISTEN"
	EnvDevMode    = "MINIDISPLAY_DEV"
)

// ServerConfig holds the HTTP server settings. The display leaves
// ListenAddr empty (no server) unless asked; the simulator defaults to :8080.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	StaticDir  string
}

// Enabled reports whether a server should be started at all.
func (c ServerConfig) Enabled() bool { return strings.TrimSpace(c.ListenAddr) != "" }

// DefaultServerConfigFromEnv starts from defaultListenAddr and applies the
// MINIDISPLAY_LISTEN and MINIDISPLAY_DEV overrides.
func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	return serverConfigFromEnv(defaultListenAddr, os.LookupEnv)
}

func serverConfigFromEnv(defaultListenAddr string, lookup func(string) (string, bool)) (ServerConfig, error) {
	cfg := ServerConfig{ListenAddr: defaultListenAddr}
	if addr, ok := lookup(EnvListenAddr); ok && addr != "" {
		cfg.ListenAddr = addr
	}
	raw, ok := lookup(EnvDevMode)
	if !ok || raw == "" {
		return cfg, nil
	}
	dev, err := strconv.ParseBool(raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("%s: want true or false, got %q", EnvDevMode, raw)
	}
	cfg.DevMode = dev
	return cfg, nil
}
