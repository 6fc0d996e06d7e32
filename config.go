package coursesync

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config is the top level configuration for one sync target: a local
// content tree mapped onto one remote course.
type Config struct {
	// ContentRoot is the directory holding the course artifacts and the
	// sync map file.
	ContentRoot string

	API     APIConfig
	Render  RenderConfig
	Quiz    QuizConfig
	Logging LoggingConfig
}

// APIConfig carries the remote course connection settings.
type APIConfig struct {
	BaseURL  string
	Token    string
	CourseID string
}

// RenderConfig selects the markdown renderer. When Command is empty the
// built-in renderer is used; otherwise artifacts are rendered by invoking
// the external command on a temp copy of the source.
type RenderConfig struct {
	Command string
	Args    []string
}

// QuizConfig tunes quiz item generation. Seed feeds the solution sampler
// for formula questions so runs are reproducible; zero seeds from the clock.
type QuizConfig struct {
	Seed int64
}

// LoggingConfig mirrors the options of the go-logger adapter.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns a configuration with the renderer and logging
// defaults filled in. API settings always come from the caller.
func DefaultConfig() Config {
	return Config{
		ContentRoot: ".",
		Quiz:        QuizConfig{Seed: 1},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration before any remote call is made.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ContentRoot, validation.Required),
		validation.Field(&c.API),
	)
}

// Validate checks the remote connection settings.
func (c APIConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.CourseID, validation.Required, is.Digit),
	)
}
