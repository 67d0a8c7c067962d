package config

import "github.com/spf13/viper"

type Config struct {
	ServerPort     string  `mapstructure:"SERVER_PORT"`
	RedisAddr      string  `mapstructure:"REDIS_ADDR"`
	RedisPassword  string  `mapstructure:"REDIS_PASSWORD"`
	DefaultFPS     float64 `mapstructure:"DEFAULT_FPS"`
	MaxUploadBytes int     `mapstructure:"MAX_UPLOAD_BYTES"`
}

func Load() Config {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_PORT", ":8080")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("DEFAULT_FPS", 29.999)
	viper.SetDefault("MAX_UPLOAD_BYTES", 64<<20)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
