package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel     string       `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string       `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort   string       `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis        Redis        `yaml:"redis"`
	AI           AI           `yaml:"ai"`
	MatchService MatchService `yaml:"match-service"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// AI - settings of the completion provider client.
type AI struct {
	Timeout time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"10s"`
}

// MatchService - where finished matches are reported.
type MatchService struct {
	BaseURL   string        `yaml:"base-url" env:"MATCH_SERVICE_BASE_URL" env-default:"http://localhost:8080"`
	Timeout   time.Duration `yaml:"timeout" env:"MATCH_SERVICE_TIMEOUT" env-default:"5s"`
	QueueSize int           `yaml:"queue-size" env:"MATCH_SERVICE_QUEUE_SIZE" env-default:"64"`
}

// MustLoad - load all configurations in config.yml file, environment variables take precedence.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
