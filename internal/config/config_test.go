package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
)

func reset() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  num_castles: 5
  armies_per_player: 50
reinforced:
  epsilon: 0.1
genetic:
  population_size: 20
training:
  num_training_games: 500
  population_kinds: ["genetic", "reinforced"]
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	reset()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 5, c.Game.NumCastles)
	assert.Equal(t, 50, c.Game.ArmiesPerPlayer)
	assert.Equal(t, 0.1, c.Reinforced.Epsilon)
	assert.Equal(t, 0.05, c.Reinforced.LearningRate, "unset keys keep their defaults")
	assert.Equal(t, 20, c.Genetic.PopulationSize)
	assert.Equal(t, 500, c.Training.NumTrainingGames)
	assert.Equal(t, []string{"genetic", "reinforced"}, c.Training.PopulationKinds)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	reset()

	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, 10, c.Game.NumCastles)
	assert.Equal(t, 100, c.Game.ArmiesPerPlayer)
	assert.Equal(t, 0.05, c.Reinforced.LearningRate)
	assert.Equal(t, 0.95, c.Reinforced.DiscountFactor)
	assert.Equal(t, 0.3, c.Reinforced.Epsilon)
	assert.Equal(t, 100.0, c.Reinforced.WinReward)
	assert.Equal(t, 50.0, c.Reinforced.LosePenalty)
	assert.Equal(t, 50, c.Genetic.PopulationSize)
	assert.Equal(t, 0.1, c.Genetic.ElitismRate)
	assert.Equal(t, 5, c.Genetic.TournamentSize)
	assert.Equal(t, 10000, c.Training.NumTrainingGames)
	assert.Equal(t, 100, c.Training.NumMatches)
	assert.Equal(t, []string{"genetic"}, c.Training.PopulationKinds)
	assert.Equal(t, 1, c.Training.Parallelism)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestInitRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("genetic:\n  elitism_rate: 0\n"), 0644))

	reset()
	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.Contains(t, err.Error(), "genetic.elitism_rate")
}

func TestEnvironmentVariables(t *testing.T) {
	reset()

	t.Setenv("BLOTTO_GAME_NUM_CASTLES", "7")
	t.Setenv("BLOTTO_TRAINING_PARALLELISM", "4")
	t.Setenv("BLOTTO_REINFORCED_EPSILON", "0.5")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, 7, c.Game.NumCastles)
	assert.Equal(t, 4, c.Training.Parallelism)
	assert.Equal(t, 0.5, c.Reinforced.Epsilon)
}

func TestSet(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	require.NoError(t, Set("training.num_training_games", 200))
	require.NoError(t, Set("training.seed", 99))

	c := Get()
	assert.Equal(t, 200, c.Training.NumTrainingGames)
	assert.Equal(t, int64(99), c.Training.Seed)

	err := Set("training.parallelism", 0)
	require.Error(t, err)
	assert.Equal(t, 1, Get().Training.Parallelism, "rejected overrides leave the config untouched")
}

func TestGetHelpers(t *testing.T) {
	reset()
	require.NoError(t, Init(""))

	assert.Equal(t, "info", GetString("logging.level"))
	assert.Equal(t, 10, GetInt("game.num_castles"))
	assert.Equal(t, 0.95, GetFloat64("reinforced.discount_factor"))
	assert.NotNil(t, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
game:
  num_castles: 10
training:
  num_matches: 100
`
	require.NoError(t, os.WriteFile(baseConfig, []byte(baseContent), 0644))

	envConfig := filepath.Join(tmpDir, "config.quick.yaml")
	envContent := `
game:
  num_castles: 4
training:
  num_training_games: 50
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(envConfig, []byte(envContent), 0644))

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	reset()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("quick"))

	c := Get()
	assert.Equal(t, 4, c.Game.NumCastles)
	assert.Equal(t, 50, c.Training.NumTrainingGames)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, 100, c.Training.NumMatches)

	require.NoError(t, LoadEnvironmentConfig("missing"))
	require.NoError(t, LoadEnvironmentConfig(""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"no castles", func(c *Config) { c.Game.NumCastles = 0 }, "game.num_castles"},
		{"negative armies", func(c *Config) { c.Game.ArmiesPerPlayer = -1 }, "game.armies_per_player"},
		{"zero learning rate", func(c *Config) { c.Reinforced.LearningRate = 0 }, "reinforced.learning_rate"},
		{"discount above one", func(c *Config) { c.Reinforced.DiscountFactor = 1.5 }, "reinforced.discount_factor"},
		{"epsilon below zero", func(c *Config) { c.Reinforced.Epsilon = -0.1 }, "reinforced.epsilon"},
		{"zero win reward", func(c *Config) { c.Reinforced.WinReward = 0 }, "reinforced.win_reward"},
		{"zero lose penalty", func(c *Config) { c.Reinforced.LosePenalty = 0 }, "reinforced.lose_penalty"},
		{"empty population", func(c *Config) { c.Genetic.PopulationSize = 0 }, "genetic.population_size"},
		{"negative mutation amount", func(c *Config) { c.Genetic.MutationAmount = -1 }, "genetic.mutation_amount"},
		{"tournament of zero", func(c *Config) { c.Genetic.TournamentSize = 0 }, "genetic.tournament_size"},
		{"zero recent window", func(c *Config) { c.Genetic.RecentWindow = 0 }, "genetic.recent_window"},
		{"no training games", func(c *Config) { c.Training.NumTrainingGames = 0 }, "training.num_training_games"},
		{"zero parallelism", func(c *Config) { c.Training.Parallelism = 0 }, "training.parallelism"},
		{"unknown population kind", func(c *Config) { c.Training.PopulationKinds = []string{"dqn"} }, "training.population_kinds"},
		{"random population", func(c *Config) { c.Training.PopulationKinds = []string{"random"} }, "training.population_kinds"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset()
			require.NoError(t, Init(""))
			c := *Get()
			c.Training.PopulationKinds = append([]string(nil), c.Training.PopulationKinds...)
			tt.mutate(&c)

			err := Validate(&c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProjections(t *testing.T) {
	reset()
	require.NoError(t, Init(""))
	require.NoError(t, Set("training.population_kinds", []string{"genetic", "reinforced"}))
	require.NoError(t, Set("training.seed", 7))

	c := Get()

	rules := c.Rules()
	assert.Equal(t, 10, rules.NumCastles)
	assert.Equal(t, 100, rules.Budget)

	rp := c.ReinforcedParams()
	assert.Equal(t, 0.05, rp.LearningRate)
	assert.Equal(t, 100.0, rp.WinReward)
	require.NoError(t, rp.Validate())

	gp := c.GeneticParams()
	assert.Equal(t, 0.1, gp.MutationRate)
	assert.Equal(t, 10, gp.RecentWindow)
	require.NoError(t, gp.Validate())

	opts := c.TrainerOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, rules, opts.Rules)
	assert.Equal(t, 100.0, opts.WinBonus)
	assert.Equal(t, 50.0, opts.LosePenalty)
	assert.Equal(t, 50, opts.PopulationSize)
	assert.Equal(t, 10000, opts.NumTrainingGames)
	assert.Equal(t, int64(7), opts.Seed)
	assert.Equal(t, []strategy.Kind{strategy.KindGenetic, strategy.KindReinforced}, opts.PopulationKinds)
}
