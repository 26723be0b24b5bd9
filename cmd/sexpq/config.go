package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveConfig holds the server settings. Precedence: flags, SEXPQ_*
// environment variables, the --config file, then defaults.
type serveConfig struct {
	Host      string
	Port      int
	GRPCPort  int
	AccessLog bool
}

// HTTPAddr is the HTTP listen address.
func (c serveConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr is the gRPC listen address.
func (c serveConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

func loadServeConfig(cmd *cobra.Command) (serveConfig, error) {
	v := viper.New()
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8787)
	v.SetDefault("grpc-port", 8788)
	v.SetDefault("access-log", true)

	v.SetEnvPrefix("SEXPQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return serveConfig{}, fmt.Errorf("bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return serveConfig{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := serveConfig{
		Host:      v.GetString("host"),
		Port:      v.GetInt("port"),
		GRPCPort:  v.GetInt("grpc-port"),
		AccessLog: v.GetBool("access-log"),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return serveConfig{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.GRPCPort <= 0 || cfg.GRPCPort > 65535 {
		return serveConfig{}, fmt.Errorf("invalid grpc-port %d", cfg.GRPCPort)
	}
	return cfg, nil
}
