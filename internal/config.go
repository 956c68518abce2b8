package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

type Config struct {
	BadgerFilepath          string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	OtrDirectory            string        `env:"OTR_DIRECTORY,required=true" validate:"required"`
	LegacyOtrDirectories    string        `env:"LEGACY_OTR_DIRECTORIES"`
	LogLevel                string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	ExternalThresholdBytes  int           `env:"EXTERNAL_THRESHOLD_BYTES,default=262144" validate:"gte=1024"`
	ServicesMustBeMentioned bool          `env:"SERVICES_MUST_BE_MENTIONED,default=false"`
	RestartInterval         time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	EventBufferSize         int           `env:"EVENT_BUFFER_SIZE,default=100" validate:"gte=0"`
	SinkTimeout             time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	SelfUserID              string        `env:"SELF_USER_ID,required=true" validate:"required,uuid"`
	SelfClientID            string        `env:"SELF_CLIENT_ID"`
	DebugPort               int           `env:"DEBUG_PORT,default=0" validate:"gte=0,lte=65535"`
	MetricsPort             int           `env:"METRICS_PORT,default=0" validate:"gte=0,lte=65535"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LegacyDirectories splits LEGACY_OTR_DIRECTORIES, a comma separated list.
func (c Config) LegacyDirectories() []string {
	var directories []string
	for _, d := range strings.Split(c.LegacyOtrDirectories, ",") {
		if d = strings.TrimSpace(d); d != "" {
			directories = append(directories, d)
		}
	}
	return directories
}

func (c Config) SelfUser() uuid.UUID {
	return uuid.MustParse(c.SelfUserID)
}
