package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Game holds the room lifecycle timings.
type Game struct {
	TurnTimeout       time.Duration `yaml:"turn-timeout" env:"GAME_TURN_TIMEOUT" env-default:"30s"`
	EmptyRoomGrace    time.Duration `yaml:"empty-room-grace" env:"GAME_EMPTY_ROOM_GRACE" env-default:"2m"`
	FinishedRetention time.Duration `yaml:"finished-retention" env:"GAME_FINISHED_RETENTION" env-default:"5m"`
	OperationTimeout  time.Duration `yaml:"operation-timeout" env:"GAME_OPERATION_TIMEOUT" env-default:"5s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	if that.Redis.Host == "" || that.Redis.Port == "" {
		return ErrAddrNotFound
	}

	for name, value := range map[string]time.Duration{
		"turn-timeout":       that.Game.TurnTimeout,
		"empty-room-grace":   that.Game.EmptyRoomGrace,
		"finished-retention": that.Game.FinishedRetention,
		"operation-timeout":  that.Game.OperationTimeout,
	} {
		if value <= 0 {
			return fmt.Errorf("%w: %s", ErrNonPositiveDuration, name)
		}
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
