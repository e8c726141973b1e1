package searcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := NewParams()
		require.Equal(t, DefaultParams(), p, "Should equal the defaults without options")
		require.NoError(t, p.Validate(), "Defaults should be valid")
	})

	t.Run("options override defaults", func(t *testing.T) {
		p := NewParams(
			WithSimulations(50),
			WithTimeLimit(time.Second),
			WithDeterminizations(8),
			WithExploration(0.7),
			WithProgressiveWidening(1.5, 0.25),
			WithRAVE(100, 6),
			WithFirstPlayUrgency(),
			WithContextAMAF(),
			WithRolloutDepth(12),
			WithWorkers(3),
			WithSeed(42),
			WithMetrics(),
		)
		want := Params{
			Simulations: 50, TimeLimit: time.Second, Determinizations: 8, Exploration: 0.7,
			PWC: 1.5, PWAlpha: 0.25, RAVE: true, RAVEK: 100, MaxAMAFDepth: 6, FirstPlayUrgency: true,
			ContextAMAF: true, RolloutDepth: 12, Workers: 3, Seed: 42, Metrics: true,
		}
		require.Equal(t, want, p, "Should apply every option")
		require.Equal(t, 3, p.workers(), "Should use the configured pool size")
	})

	t.Run("disabling RAVE", func(t *testing.T) {
		require.False(t, NewParams(WithoutRAVE()).RAVE, "Should turn RAVE off")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		option Option
	}{
		{"negative simulations", WithSimulations(-1)},
		{"no determinizations", WithDeterminizations(0)},
		{"negative exploration", WithExploration(-1)},
		{"zero widening constant", WithProgressiveWidening(0, 0.5)},
		{"widening exponent above one", WithProgressiveWidening(2, 1.5)},
		{"zero rave k", WithRAVE(0, 0)},
		{"negative amaf depth", WithRAVE(10, -1)},
		{"negative rollout", WithRolloutDepth(-2)},
		{"negative workers", WithWorkers(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, NewParams(tt.option).Validate(), "Should reject the params")
		})
	}

	t.Run("no budget at all", func(t *testing.T) {
		err := NewParams(WithSimulations(0)).Validate()
		require.True(t, errors.Is(err, ErrNoBudget), "Should report the missing budget")
	})

	t.Run("time limit alone is a budget", func(t *testing.T) {
		require.NoError(t, NewParams(WithSimulations(0), WithTimeLimit(time.Second)).Validate(), "Should accept a time-only budget")
	})
}

func TestLoadParams(t *testing.T) {
	t.Run("missing keys keep their defaults", func(t *testing.T) {
		p, err := LoadParams(strings.NewReader("simulations: 200\ntime_limit: 250ms\nfirst_play_urgency: true\n"))

		require.NoError(t, err, "Should decode")
		require.Equal(t, 200, p.Simulations, "Should read simulations")
		require.Equal(t, 250*time.Millisecond, p.TimeLimit, "Should parse the duration")
		require.True(t, p.FirstPlayUrgency, "Should read flags")
		require.Equal(t, DefaultParams().Determinizations, p.Determinizations, "Should keep defaults")
	})

	t.Run("empty document gives the defaults", func(t *testing.T) {
		p, err := LoadParams(strings.NewReader(""))
		require.NoError(t, err, "Should accept an empty document")
		require.Equal(t, DefaultParams(), p, "Should return the defaults")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		_, err := LoadParams(strings.NewReader("determinizations: 0\n"))
		require.ErrorContains(t, err, "determinizations must be positive", "Should validate after decoding")
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := LoadParams(strings.NewReader("simulatons: 10\n"))
		require.ErrorContains(t, err, "decode search params", "Should refuse misspelled keys")
	})

	t.Run("reads files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "search.yaml")
		require.NoError(t, os.WriteFile(path, []byte("pw_c: 3\npw_alpha: 0.4\nrave: false\n"), 0o644), "Should write the fixture")

		p, err := LoadParamsFile(path)
		require.NoError(t, err, "Should load the file")
		require.Equal(t, 3.0, p.PWC, "Should read pw_c")
		require.Equal(t, 0.4, p.PWAlpha, "Should read pw_alpha")
		require.False(t, p.RAVE, "Should read rave")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadParamsFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorContains(t, err, "open search params", "Should wrap the open error")
	})
}
