package keygen

import (
	"crypto/rand"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config configures a Manager. The zero value is usable.
type Config struct {
	// Logger receives ceremony events. Defaults to a no-op logger.
	Logger *zap.Logger
	// Registerer registers the manager's metrics. Nil leaves them
	// unregistered.
	Registerer prometheus.Registerer
	// Rand is the entropy source for polynomials and proofs. Defaults to
	// crypto/rand.
	Rand io.Reader
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	return c
}
