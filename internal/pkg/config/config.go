package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type BridgeConfig struct {
	User           string
	Password       string
	SourceURLs     []string
	TandemURLs     []string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Port           string
	Mosquitto      MosquittoConfig
}

// MosquittoConfig enables the optional local reading mirror. The
// mirror is disabled when Domain is empty.
type MosquittoConfig struct {
	Domain   string
	User     string
	Password string
	Protocol string
}

// Load materializes the bridge config from viper, applies defaults
// and validates. Any error here is fatal: the bridge must not start
// cycling on a bad config.
func Load() (BridgeConfig, error) {
	c := BridgeConfig{
		User:       viper.GetString("user"),
		Password:   viper.GetString("password"),
		SourceURLs: viper.GetStringSlice("source_urls"),
		TandemURLs: viper.GetStringSlice("tandem_urls"),
		Port:       viper.GetString("port"),
		Mosquitto: MosquittoConfig{
			Domain:   viper.GetString("mosquitto_domain"),
			User:     viper.GetString("mosquitto_user"),
			Password: viper.GetString("mosquitto_password"),
			Protocol: viper.GetString("mosquitto_protocol"),
		},
	}

	var err error
	c.PollInterval, err = seconds("poll_interval_seconds", DefaultPollIntervalSeconds)
	if err != nil {
		return BridgeConfig{}, err
	}
	c.RequestTimeout, err = seconds("request_timeout_seconds", DefaultRequestTimeoutSeconds)
	if err != nil {
		return BridgeConfig{}, err
	}

	if c.Port == "" {
		c.Port = DefaultPort
	}

	if err := c.validate(); err != nil {
		return BridgeConfig{}, err
	}

	return c, nil
}

func (c BridgeConfig) validate() error {
	if c.User == "" || c.Password == "" {
		return fmt.Errorf("user and password are required")
	}
	if len(c.SourceURLs) == 0 {
		return fmt.Errorf("source_urls is empty")
	}
	if len(c.TandemURLs) == 0 {
		return fmt.Errorf("tandem_urls is empty")
	}
	if len(c.SourceURLs) > len(c.TandemURLs) {
		return fmt.Errorf("%d source urls configured but only %d tandem urls", len(c.SourceURLs), len(c.TandemURLs))
	}
	return nil
}

// using viper.GetInt is unsafe because if the key
// is unset, viper will return 0 resulting in
// a busy loop instead of a sleep between cycles
func seconds(key string, defaultSeconds int) (time.Duration, error) {
	s := viper.GetString(key)
	if s == "" {
		return time.Duration(defaultSeconds) * time.Second, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return time.Duration(n) * time.Second, nil
}
