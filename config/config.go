package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/niello/deusexmachina-sub012/parameter"
)

// FileName is the config file looked up in the config directory
const FileName = "steer-sandbox"

// Tuning holds the values systems read once at construction
type Tuning struct {
	LogLevel  zerolog.Level
	LogFile   string
	TickRate  time.Duration
	AreasFile string
	Audio     bool

	AgentHeight float64
	AgentRadius float64

	MaxLinearSpeed     float64
	MaxAngularSpeed    float64
	BrakingDecel       float64
	SteeringSmoothness float64
}

// Load reads configuration from a YAML file and sets default values
// configDir is the directory containing the config file, a missing file keeps defaults
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "steer-sandbox.log")
	viper.SetDefault("tickRate", "16ms")
	viper.SetDefault("areasFile", "")
	viper.SetDefault("audio", true)

	viper.SetDefault("agent.height", 1.8)
	viper.SetDefault("agent.radius", 0.3)

	viper.SetDefault("character.maxLinearSpeed", parameter.CharacterMaxLinearSpeed)
	viper.SetDefault("character.maxAngularSpeed", parameter.CharacterMaxAngularSpeed)
	viper.SetDefault("character.brakingDecel", 1/(2*parameter.CharacterArriveBrakingCoeff))
	viper.SetDefault("character.steeringSmoothness", parameter.CharacterSteeringSmoothness)

	viper.SetConfigName(FileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current resolves the loaded configuration into typed tuning
func Current() (Tuning, error) {
	level, err := zerolog.ParseLevel(viper.GetString("logLevel"))
	if err != nil {
		return Tuning{}, fmt.Errorf("logLevel: %w", err)
	}
	tick := viper.GetDuration("tickRate")
	if tick <= 0 {
		return Tuning{}, fmt.Errorf("tickRate must be positive, got %q", viper.GetString("tickRate"))
	}
	decel := viper.GetFloat64("character.brakingDecel")
	if decel <= 0 {
		return Tuning{}, fmt.Errorf("character.brakingDecel must be positive, got %v", decel)
	}

	return Tuning{
		LogLevel:  level,
		LogFile:   viper.GetString("logFile"),
		TickRate:  tick,
		AreasFile: viper.GetString("areasFile"),
		Audio:     viper.GetBool("audio"),

		AgentHeight: viper.GetFloat64("agent.height"),
		AgentRadius: viper.GetFloat64("agent.radius"),

		MaxLinearSpeed:     viper.GetFloat64("character.maxLinearSpeed"),
		MaxAngularSpeed:    viper.GetFloat64("character.maxAngularSpeed"),
		BrakingDecel:       decel,
		SteeringSmoothness: viper.GetFloat64("character.steeringSmoothness"),
	}, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetFloat returns a float config value
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}
