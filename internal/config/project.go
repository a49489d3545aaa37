package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ProjectConfigName is the project configuration file, without extension
const ProjectConfigName = "brownie-config"

// network setting keys; every other key under a network is a contract address
var networkSettingKeys = map[string]bool{
	"host":     true,
	"cmd":      true,
	"port":     true,
	"fork":     true,
	"chain_id": true,
	"verify":   true,
}

// parseProjectConfig extracts the project config from viper. Values are expanded against
// the environment, so .env files must be loaded first.
func parseProjectConfig(v *viper.Viper) (*ProjectConfig, error) {
	rawKey := v.GetString("wallets.from_key")
	cfg := &ProjectConfig{
		Path:     v.ConfigFileUsed(),
		Dotenv:   v.GetString("dotenv"),
		Networks: make(map[string]NetworkSettings),
		Wallets: WalletsConfig{
			FromKey: os.ExpandEnv(rawKey),
		},
	}
	if name, ok := DetectEnvVar(rawKey); ok {
		cfg.Wallets.FromKeyEnv = name
	}

	raw := v.GetStringMap("networks")
	for name, data := range raw {
		if name == "default" {
			cfg.DefaultNetwork = cast.ToString(data)
			continue
		}
		networkMap, ok := data.(map[string]any)
		if !ok {
			if data == nil {
				cfg.Networks[name] = NetworkSettings{Contracts: map[string]string{}}
				continue
			}
			return nil, fmt.Errorf("network %s must be a mapping, got %T", name, data)
		}
		settings, err := parseNetworkSettings(networkMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse network %s: %w", name, err)
		}
		cfg.Networks[name] = *settings
	}

	return cfg, nil
}

// parseNetworkSettings parses a single network section
func parseNetworkSettings(data map[string]any) (*NetworkSettings, error) {
	settings := &NetworkSettings{
		Contracts: make(map[string]string),
	}

	for key, value := range data {
		key = strings.ToLower(key)
		if !networkSettingKeys[key] {
			addr, ok := value.(string)
			if !ok {
				// nested sections (e.g. cmd_settings) are not contract addresses
				continue
			}
			settings.Contracts[key] = os.ExpandEnv(addr)
			continue
		}

		var err error
		switch key {
		case "host":
			settings.Host = os.ExpandEnv(cast.ToString(value))
		case "cmd":
			settings.Cmd = cast.ToString(value)
		case "port":
			settings.Port, err = cast.ToIntE(value)
		case "fork":
			settings.Fork = os.ExpandEnv(cast.ToString(value))
		case "chain_id":
			settings.ChainID, err = cast.ToUint64E(value)
		case "verify":
			settings.Verify, err = cast.ToBoolE(value)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	return settings, nil
}

// MarshalYAML flattens contract addresses back next to the settings, matching the file layout
func (s NetworkSettings) MarshalYAML() (interface{}, error) {
	out := make(map[string]any, len(s.Contracts)+6)
	for name, addr := range s.Contracts {
		out[name] = addr
	}
	if s.Host != "" {
		out["host"] = s.Host
	}
	if s.Cmd != "" {
		out["cmd"] = s.Cmd
	}
	if s.Port != 0 {
		out["port"] = s.Port
	}
	if s.Fork != "" {
		out["fork"] = s.Fork
	}
	if s.ChainID != 0 {
		out["chain_id"] = s.ChainID
	}
	if s.Verify {
		out["verify"] = s.Verify
	}
	return out, nil
}
