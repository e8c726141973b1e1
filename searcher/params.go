package searcher

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Params configures one search. It is never modified by a search.
type Params struct {
	Simulations      int           `yaml:"simulations"`      // total iterations over all determinizations, 0 = until the time limit
	TimeLimit        time.Duration `yaml:"time_limit"`       // 0 = no deadline
	Determinizations int           `yaml:"determinizations"` // independent trees
	Exploration      float64       `yaml:"exploration"`
	PWC              float64       `yaml:"pw_c"`
	PWAlpha          float64       `yaml:"pw_alpha"`
	RAVE             bool          `yaml:"rave"`
	RAVEK            float64       `yaml:"rave_k"`
	MaxAMAFDepth     int           `yaml:"max_amaf_depth"` // 0 = unbounded
	FirstPlayUrgency bool          `yaml:"first_play_urgency"`
	ContextAMAF      bool          `yaml:"context_amaf"`
	RolloutDepth     int           `yaml:"rollout_depth"` // 0 = evaluate leaves directly
	Workers          int           `yaml:"workers"`       // concurrent determinizations, 0 = GOMAXPROCS
	Seed             uint64        `yaml:"seed"`          // 0 = fresh randomness
	Metrics          bool          `yaml:"metrics"`
}

var ErrNoBudget = errors.New("search needs simulations or a time limit")

func DefaultParams() Params {
	return Params{
		Simulations:      1000,
		Determinizations: 4,
		Exploration:      1.41,
		PWC:              2.0,
		PWAlpha:          0.5,
		RAVE:             true,
		RAVEK:            300,
	}
}

type Option func(p *Params)

func WithSimulations(simulations int) Option {
	return func(p *Params) {
		p.Simulations = simulations
	}
}

func WithTimeLimit(limit time.Duration) Option {
	return func(p *Params) {
		p.TimeLimit = limit
	}
}

func WithDeterminizations(n int) Option {
	return func(p *Params) {
		p.Determinizations = n
	}
}

func WithExploration(c float64) Option {
	return func(p *Params) {
		p.Exploration = c
	}
}

func WithProgressiveWidening(c, alpha float64) Option {
	return func(p *Params) {
		p.PWC = c
		p.PWAlpha = alpha
	}
}

func WithRAVE(k float64, maxAMAFDepth int) Option {
	return func(p *Params) {
		p.RAVE = true
		p.RAVEK = k
		p.MaxAMAFDepth = maxAMAFDepth
	}
}

func WithoutRAVE() Option {
	return func(p *Params) {
		p.RAVE = false
	}
}

func WithFirstPlayUrgency() Option {
	return func(p *Params) {
		p.FirstPlayUrgency = true
	}
}

func WithContextAMAF() Option {
	return func(p *Params) {
		p.ContextAMAF = true
	}
}

func WithRolloutDepth(depth int) Option {
	return func(p *Params) {
		p.RolloutDepth = depth
	}
}

func WithWorkers(n int) Option {
	return func(p *Params) {
		p.Workers = n
	}
}

func WithSeed(seed uint64) Option {
	return func(p *Params) {
		p.Seed = seed
	}
}

func WithMetrics() Option {
	return func(p *Params) {
		p.Metrics = true
	}
}

// NewParams applies options over DefaultParams.
func NewParams(options ...Option) Params {
	p := DefaultParams()
	for _, option := range options {
		option(&p)
	}
	return p
}

func (p Params) Validate() error {
	switch {
	case p.Simulations < 0:
		return errors.Errorf("simulations must not be negative, got %d", p.Simulations)
	case p.TimeLimit < 0:
		return errors.Errorf("time limit must not be negative, got %s", p.TimeLimit)
	case p.Simulations == 0 && p.TimeLimit == 0:
		return ErrNoBudget
	case p.Determinizations < 1:
		return errors.Errorf("determinizations must be positive, got %d", p.Determinizations)
	case p.Exploration < 0:
		return errors.Errorf("exploration must not be negative, got %g", p.Exploration)
	case p.PWC <= 0:
		return errors.Errorf("pw_c must be positive, got %g", p.PWC)
	case p.PWAlpha < 0 || p.PWAlpha > 1:
		return errors.Errorf("pw_alpha must be within [0,1], got %g", p.PWAlpha)
	case p.RAVE && p.RAVEK <= 0:
		return errors.Errorf("rave_k must be positive, got %g", p.RAVEK)
	case p.MaxAMAFDepth < 0:
		return errors.Errorf("max_amaf_depth must not be negative, got %d", p.MaxAMAFDepth)
	case p.RolloutDepth < 0:
		return errors.Errorf("rollout_depth must not be negative, got %d", p.RolloutDepth)
	case p.Workers < 0:
		return errors.Errorf("workers must not be negative, got %d", p.Workers)
	}
	return nil
}

func (p Params) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// LoadParams decodes YAML over DefaultParams. Unknown keys are rejected.
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil && err != io.EOF {
		return Params{}, errors.Wrap(err, "decode search params")
	}
	if err := p.Validate(); err != nil {
		return Params{}, errors.Wrap(err, "invalid search params")
	}
	return p, nil
}

func LoadParamsFile(path string) (Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return Params{}, errors.Wrapf(err, "open search params %s", path)
	}
	defer f.Close()
	return LoadParams(f)
}
