package main

import (
	"strconv"

	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Config holds a server's configuration. The port and password always come
// from the command line; the tuning file can adjust the rest.
type Config struct {
	ListenHost string
	ListenPort string
	ServerName string
	Version    string
	Password   string

	// How many lines may queue for one client before we give up on it.
	SendQueueSize int
}

const defaultSendQueueSize = 32768

// loadConfig builds the configuration from arguments plus the optional
// tuning file. File keys: listen-host, version, send-queue-size. Absent
// keys keep their defaults; the file can never change port or password.
func loadConfig(args *Args) (*Config, error) {
	cfg := &Config{
		ListenHost:    "0.0.0.0",
		ListenPort:    args.Port,
		ServerName:    "ircserv",
		Version:       "1.0",
		Password:      args.Password,
		SendQueueSize: defaultSendQueueSize,
	}

	if len(args.ConfigFile) == 0 {
		return cfg, nil
	}

	configMap, err := config.ReadStringMap(args.ConfigFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}

	if v, exists := configMap["listen-host"]; exists && len(v) > 0 {
		cfg.ListenHost = v
	}

	if v, exists := configMap["version"]; exists && len(v) > 0 {
		cfg.Version = v
	}

	if v, exists := configMap["send-queue-size"]; exists {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.Errorf("send-queue-size is not valid: %s", v)
		}
		cfg.SendQueueSize = n
	}

	return cfg, nil
}
