// Package config loads the static deployment options: where the WireGuard
// config and management scripts live, which interface to query, and how the
// privileged read path works. Options come from an optional TOML file with
// environment variable overrides (a .env file is honoured by main). Runtime-
// mutable preferences live in internal/settings instead.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Options are the process-wide deployment settings.
type Options struct {
	ListenAddr string `toml:"listen_addr"`
	DataDir    string `toml:"data_dir"`

	WGConfigPath string `toml:"wg_config_path"`
	WGInterface  string `toml:"wg_interface"`

	ScriptsDir      string `toml:"scripts_dir"`
	ClientConfigDir string `toml:"client_config_dir"`
	PublicConfDir   string `toml:"public_conf_dir"`

	// UseSudo selects the privileged-helper read path and prefixes script
	// invocations with SudoBin.
	UseSudo              bool   `toml:"use_sudo"`
	SudoBin              string `toml:"sudo_bin"`
	ScriptTimeoutSeconds int    `toml:"script_timeout_seconds"`

	// BaseURL is used to build absolute public download links; when empty the
	// request's Host header is used.
	BaseURL string `toml:"base_url"`
}

// Defaults mirrors a typical single-interface deployment.
func Defaults() Options {
	return Options{
		ListenAddr:           ":8092",
		DataDir:              "/var/lib/wgadmin-webui",
		WGConfigPath:         "/etc/wireguard/wg0.conf",
		WGInterface:          "wg0",
		ScriptsDir:           "/usr/local/lib/wgadmin/scripts",
		ClientConfigDir:      "/etc/wireguard/clients",
		PublicConfDir:        "/var/lib/wgadmin-webui/public",
		UseSudo:              true,
		SudoBin:              "sudo",
		ScriptTimeoutSeconds: 15,
	}
}

// Load reads the TOML file at path (missing file is fine: defaults apply) and
// then applies WGADMIN_* environment overrides.
func Load(path string) (Options, error) {
	opts := Defaults()
	if path != "" {
		if _, err := toml.DecodeFile(path, &opts); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Options{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	applyEnv(&opts)
	if opts.ScriptTimeoutSeconds <= 0 {
		opts.ScriptTimeoutSeconds = Defaults().ScriptTimeoutSeconds
	}
	return opts, nil
}

// ScriptTimeout returns the script timeout as a duration.
func (o Options) ScriptTimeout() time.Duration {
	return time.Duration(o.ScriptTimeoutSeconds) * time.Second
}

func applyEnv(opts *Options) {
	setString := func(key string, target *string) {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
	setString("WGADMIN_LISTEN_ADDR", &opts.ListenAddr)
	setString("WGADMIN_DATA_DIR", &opts.DataDir)
	setString("WGADMIN_WG_CONFIG_PATH", &opts.WGConfigPath)
	setString("WGADMIN_WG_INTERFACE", &opts.WGInterface)
	setString("WGADMIN_SCRIPTS_DIR", &opts.ScriptsDir)
	setString("WGADMIN_CLIENT_CONFIG_DIR", &opts.ClientConfigDir)
	setString("WGADMIN_PUBLIC_CONF_DIR", &opts.PublicConfDir)
	setString("WGADMIN_SUDO_BIN", &opts.SudoBin)
	setString("WGADMIN_BASE_URL", &opts.BaseURL)

	if value := os.Getenv("WGADMIN_USE_SUDO"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			opts.UseSudo = parsed
		}
	}
	if value := os.Getenv("WGADMIN_SCRIPT_TIMEOUT_SECONDS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			opts.ScriptTimeoutSeconds = parsed
		}
	}
}
