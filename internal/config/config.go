package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/CastleBlottoRL/internal/game"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/strategy"
	"github.com/mitchelldurbincs/CastleBlottoRL/internal/trainer"
)

// Config holds all configuration for the application
type Config struct {
	Game       GameConfig       `mapstructure:"game"`
	Reinforced ReinforcedConfig `mapstructure:"reinforced"`
	Genetic    GeneticConfig    `mapstructure:"genetic"`
	Training   TrainingConfig   `mapstructure:"training"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// GameConfig holds contest rules
type GameConfig struct {
	NumCastles      int `mapstructure:"num_castles"`
	ArmiesPerPlayer int `mapstructure:"armies_per_player"`
}

// ReinforcedConfig holds Q-learning settings. WinReward and LosePenalty
// also set the match reward bonus and penalty.
type ReinforcedConfig struct {
	LearningRate   float64 `mapstructure:"learning_rate"`
	DiscountFactor float64 `mapstructure:"discount_factor"`
	Epsilon        float64 `mapstructure:"epsilon"`
	WinReward      float64 `mapstructure:"win_reward"`
	LosePenalty    float64 `mapstructure:"lose_penalty"`
}

// GeneticConfig holds evolution settings
type GeneticConfig struct {
	PopulationSize int     `mapstructure:"population_size"`
	MutationRate   float64 `mapstructure:"mutation_rate"`
	MutationAmount float64 `mapstructure:"mutation_amount"`
	ElitismRate    float64 `mapstructure:"elitism_rate"`
	TournamentSize int     `mapstructure:"tournament_size"`
	RecentWindow   int     `mapstructure:"recent_window"`
}

// TrainingConfig holds run-level settings
type TrainingConfig struct {
	NumTrainingGames int      `mapstructure:"num_training_games"`
	NumMatches       int      `mapstructure:"num_matches"`
	Seed             int64    `mapstructure:"seed"`
	PopulationKinds  []string `mapstructure:"population_kinds"`
	Parallelism      int      `mapstructure:"parallelism"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("game.num_castles", 10)
	v.SetDefault("game.armies_per_player", 100)

	v.SetDefault("reinforced.learning_rate", 0.05)
	v.SetDefault("reinforced.discount_factor", 0.95)
	v.SetDefault("reinforced.epsilon", 0.3)
	v.SetDefault("reinforced.win_reward", 100)
	v.SetDefault("reinforced.lose_penalty", 50)

	v.SetDefault("genetic.population_size", 50)
	v.SetDefault("genetic.mutation_rate", 0.1)
	v.SetDefault("genetic.mutation_amount", 0.1)
	v.SetDefault("genetic.elitism_rate", 0.1)
	v.SetDefault("genetic.tournament_size", 5)
	v.SetDefault("genetic.recent_window", 10)

	v.SetDefault("training.num_training_games", 10000)
	v.SetDefault("training.num_matches", 100)
	v.SetDefault("training.seed", 0)
	v.SetDefault("training.population_kinds", []string{"genetic"})
	v.SetDefault("training.parallelism", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("BLOTTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" {
			// A missing explicit file falls back to defaults; a broken one does not
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("error reading config file %s: %w", configPath, err)
			}
		} else if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return reload()
}

func reload() error {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml from the working
// directory over the loaded configuration. A missing file is ignored.
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	return reload()
}

// Set overrides a key at runtime, typically from a command-line flag.
// The override must still pass validation.
func Set(key string, value interface{}) error {
	v.Set(key, value)
	return reload()
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.NumCastles < 1 {
		return fmt.Errorf("game.num_castles must be at least 1")
	}
	if c.Game.ArmiesPerPlayer < 0 {
		return fmt.Errorf("game.armies_per_player must be non-negative")
	}

	if c.Reinforced.LearningRate <= 0 || c.Reinforced.LearningRate > 1 {
		return fmt.Errorf("reinforced.learning_rate must be in (0, 1]")
	}
	if c.Reinforced.DiscountFactor < 0 || c.Reinforced.DiscountFactor > 1 {
		return fmt.Errorf("reinforced.discount_factor must be between 0 and 1")
	}
	if c.Reinforced.Epsilon < 0 || c.Reinforced.Epsilon > 1 {
		return fmt.Errorf("reinforced.epsilon must be between 0 and 1")
	}
	if c.Reinforced.WinReward <= 0 {
		return fmt.Errorf("reinforced.win_reward must be positive")
	}
	if c.Reinforced.LosePenalty <= 0 {
		return fmt.Errorf("reinforced.lose_penalty must be positive")
	}

	if c.Genetic.PopulationSize < 1 {
		return fmt.Errorf("genetic.population_size must be at least 1")
	}
	if c.Genetic.MutationRate < 0 || c.Genetic.MutationRate > 1 {
		return fmt.Errorf("genetic.mutation_rate must be between 0 and 1")
	}
	if c.Genetic.MutationAmount < 0 {
		return fmt.Errorf("genetic.mutation_amount must be non-negative")
	}
	if c.Genetic.ElitismRate <= 0 || c.Genetic.ElitismRate > 1 {
		return fmt.Errorf("genetic.elitism_rate must be in (0, 1]")
	}
	if c.Genetic.TournamentSize < 1 {
		return fmt.Errorf("genetic.tournament_size must be at least 1")
	}
	if c.Genetic.RecentWindow < 1 {
		return fmt.Errorf("genetic.recent_window must be at least 1")
	}

	if c.Training.NumTrainingGames < 1 {
		return fmt.Errorf("training.num_training_games must be at least 1")
	}
	if c.Training.NumMatches < 0 {
		return fmt.Errorf("training.num_matches must be non-negative")
	}
	if c.Training.Parallelism < 1 {
		return fmt.Errorf("training.parallelism must be at least 1")
	}
	if _, err := c.populationKinds(); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}

func (c *Config) populationKinds() ([]strategy.Kind, error) {
	kinds := make([]strategy.Kind, 0, len(c.Training.PopulationKinds))
	for _, name := range c.Training.PopulationKinds {
		k, err := strategy.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("training.population_kinds: %w", err)
		}
		if !trainer.PopulationCapable(k) {
			return nil, fmt.Errorf("training.population_kinds: %s cannot be trained as a population", k)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Rules returns the contest rules.
func (c *Config) Rules() game.Rules {
	return game.Rules{NumCastles: c.Game.NumCastles, Budget: c.Game.ArmiesPerPlayer}
}

// ReinforcedParams returns the Q-learning parameters.
func (c *Config) ReinforcedParams() strategy.ReinforcedParams {
	return strategy.ReinforcedParams{
		LearningRate:   c.Reinforced.LearningRate,
		DiscountFactor: c.Reinforced.DiscountFactor,
		Epsilon:        c.Reinforced.Epsilon,
		WinReward:      c.Reinforced.WinReward,
		LosePenalty:    c.Reinforced.LosePenalty,
	}
}

// GeneticParams returns the per-individual genetic parameters.
func (c *Config) GeneticParams() strategy.GeneticParams {
	return strategy.GeneticParams{
		MutationRate:   c.Genetic.MutationRate,
		MutationAmount: c.Genetic.MutationAmount,
		RecentWindow:   c.Genetic.RecentWindow,
	}
}

// TrainerOptions assembles everything a trainer needs.
func (c *Config) TrainerOptions() trainer.Options {
	kinds, _ := c.populationKinds() // checked by Validate

	return trainer.Options{
		Rules: c.Rules(),
		Params: strategy.Params{
			Reinforced: c.ReinforcedParams(),
			Genetic:    c.GeneticParams(),
		},
		WinBonus:         c.Reinforced.WinReward,
		LosePenalty:      c.Reinforced.LosePenalty,
		PopulationSize:   c.Genetic.PopulationSize,
		ElitismRate:      c.Genetic.ElitismRate,
		TournamentSize:   c.Genetic.TournamentSize,
		NumTrainingGames: c.Training.NumTrainingGames,
		PopulationKinds:  kinds,
		Parallelism:      c.Training.Parallelism,
		Seed:             c.Training.Seed,
	}
}
