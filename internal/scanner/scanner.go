package scanner

import (
	"fmt"

	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// Scanner walks the key space of one or more nodes a page at a time. It holds
// no per-call state and is safe for concurrent use.
type Scanner struct {
	config   Config
	logger   logging.Logger
	hooks    *Hooks
	enricher *Enricher
}

type Option func(*Scanner)

func WithHooks(hooks *Hooks) Option {
	return func(s *Scanner) {
		s.hooks = hooks
	}
}

func New(config Config, logger logging.Logger, opts ...Option) (*Scanner, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scanner config: %w", err)
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	s := &Scanner{
		config: config,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.enricher = NewEnricher(s.hooks)
	return s, nil
}

func (s *Scanner) Config() Config {
	return s.config
}

// normalize applies the request defaults: match "*" and the configured count.
func (s *Scanner) normalize(req ScanRequest) (match string, count int64) {
	match = req.Match
	if match == "" {
		match = DefaultMatch
	}
	count = req.Count
	if count <= 0 {
		count = s.config.CountDefault
	}
	return match, count
}
