package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Quiz QuizConfig `toml:"quiz"`

	path string
}

// QuizConfig holds the defaults applied to quiz requests that omit a
// difficulty or question count
type QuizConfig struct {
	Difficulty   string `toml:"difficulty"`
	NumQuestions int    `toml:"num_questions"`
}

// Validate checks if the QuizConfig is valid
func (q *QuizConfig) Validate() error {
	switch q.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return goerr.Wrap(ErrInvalidConfig, "quiz difficulty must be easy, medium or hard", goerr.V("difficulty", q.Difficulty))
	}
	if q.NumQuestions < 0 {
		return goerr.Wrap(ErrInvalidConfig, "quiz num_questions must not be negative", goerr.V("num_questions", q.NumQuestions))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.Quiz.Validate(); err != nil {
		return goerr.Wrap(err, "invalid quiz configuration")
	}
	return nil
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to application configuration TOML file",
			Sources:     cli.EnvVars("LEARNMAP_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the configuration file when one was given. Without a
// file the zero defaults apply.
func (a *AppConfig) Configure() error {
	if a.path == "" {
		return nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, a.path))
		}
		return goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, a.path))
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, a.path))
	}

	if err := a.Validate(); err != nil {
		return goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, a.path))
	}

	return nil
}
