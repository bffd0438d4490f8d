package treesink

import "github.com/sirupsen/logrus"

type config struct {
	log          logrus.FieldLogger
	scripting    bool
	iframeSrcdoc bool
}

func newConfig(opts []Option) config {
	cfg := config{
		log:       logrus.StandardLogger(),
		scripting: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option adjusts session or one-shot parse construction.
type Option func(*config)

// WithLogger routes the session's diagnostics to the given logger. The
// default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cfg *config) {
		cfg.log = log
	}
}

// WithScripting sets the scripting-enabled flag, which changes how noscript
// elements parse. Document parsing defaults to enabled; fragment parsing is
// always scripting-disabled and ignores this option.
func WithScripting(enabled bool) Option {
	return func(cfg *config) {
		cfg.scripting = enabled
	}
}

// WithIFrameSrcdoc marks the input as an iframe srcdoc document, which is
// exempt from missing-doctype quirks.
func WithIFrameSrcdoc() Option {
	return func(cfg *config) {
		cfg.iframeSrcdoc = true
	}
}
