// Package config loads settings from defaults, an optional config file, a .env
// file and CLASSROOM_* environment variables, in increasing precedence.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "CLASSROOM"

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Seating SeatingConfig `mapstructure:"seating"`
	Draw    DrawConfig    `mapstructure:"draw"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Log     LogConfig     `mapstructure:"log"`
	Seed    int64         `mapstructure:"seed"`
}

type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// Addr is the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type StorageConfig struct {
	Driver   string `mapstructure:"driver" validate:"oneof=bolt redis"`
	BoltPath string `mapstructure:"bolt_path" validate:"required_if=Driver bolt"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0,max=15"`
	Prefix   string `mapstructure:"prefix"`
}

type SeatingConfig struct {
	Rows int `mapstructure:"rows" validate:"min=1,max=20"`
	Cols int `mapstructure:"cols" validate:"min=1,max=20"`
}

type DrawConfig struct {
	Frames        int           `mapstructure:"frames" validate:"min=1,max=100"`
	FrameInterval time.Duration `mapstructure:"frame_interval" validate:"min=1ms"`
}

type TimerConfig struct {
	Max  time.Duration `mapstructure:"max" validate:"min=1s"`
	Tick time.Duration `mapstructure:"tick" validate:"min=1ms"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error off"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "")
	v.SetDefault("http.port", 8080)
	v.SetDefault("storage.driver", "bolt")
	v.SetDefault("storage.bolt_path", "data/classroom.db")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 8)
	v.SetDefault("redis.prefix", "classroom:")
	v.SetDefault("seating.rows", 6)
	v.SetDefault("seating.cols", 7)
	v.SetDefault("draw.frames", 15)
	v.SetDefault("draw.frame_interval", 100*time.Millisecond)
	v.SetDefault("timer.max", 60*time.Minute)
	v.SetDefault("timer.tick", time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("seed", 0)
}

// Load reads the configuration. file may be empty; a .env file in the working
// directory is loaded when present and never overrides the real environment.
func Load(file string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.Wrap(err, "config: load .env")
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "config: stat .env")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "config: invalid")
	}
	return nil
}
