// Package config holds the server's startup configuration, loaded from
// environment variables with spec-mandated defaults (see spec.md §4.6
// for the listening endpoint and poll timeout, §4.1/§4.4 for the frame
// size cap). A bare-env approach is deliberate: the server takes no
// config file and no command-line arguments (see DESIGN.md).
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Config is the full set of values the server needs before it can bind
// its listening socket and start the event loop.
type Config struct {
	Host          string // listen address; "" means any address
	Port          int
	MaxFrameLen   int // frame payload cap reported at startup, bytes; the cap enforced on requests is the constant wire.MaxFrameLen, which this field does not change
	PollTimeoutMS int // epoll_wait timeout
}

// Default returns the spec-mandated defaults: any address, port 1234,
// a 4096-byte frame cap, and a 1-second poll timeout.
func Default() Config {
	return Config{
		Host:          "",
		Port:          1234,
		MaxFrameLen:   4096,
		PollTimeoutMS: 1000,
	}
}

// Load returns Default(), overridden by any of KVSTORED_HOST,
// KVSTORED_PORT, KVSTORED_MAX_FRAME_LEN, and KVSTORED_POLL_TIMEOUT_MS
// present in the environment.
func Load() (Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv("KVSTORED_HOST"); ok {
		cfg.Host = v
	}
	if v, ok := os.LookupEnv("KVSTORED_PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "config: KVSTORED_PORT")
		}
		cfg.Port = n
	}
	if v, ok := os.LookupEnv("KVSTORED_MAX_FRAME_LEN"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "config: KVSTORED_MAX_FRAME_LEN")
		}
		cfg.MaxFrameLen = n
	}
	if v, ok := os.LookupEnv("KVSTORED_POLL_TIMEOUT_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.Wrap(err, "config: KVSTORED_POLL_TIMEOUT_MS")
		}
		cfg.PollTimeoutMS = n
	}
	return cfg, nil
}
