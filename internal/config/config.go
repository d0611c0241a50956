package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr         string `mapstructure:"LISTEN_ADDR"`
	Host               string `mapstructure:"HOST"`
	RestrictedKeywords string `mapstructure:"RESTRICTED_KEYWORDS"`
	DatabasePath       string `mapstructure:"DB_PATH"`
	SMTPHost           string `mapstructure:"SMTP_HOST"`
	SMTPPort           string `mapstructure:"SMTP_PORT"`
	MailFrom           string `mapstructure:"MAIL_FROM"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("LISTEN_ADDR", ":8080")
	viper.SetDefault("HOST", "http://localhost:8080")
	viper.SetDefault("RESTRICTED_KEYWORDS", "")
	viper.SetDefault("DB_PATH", "listed.db")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", "1025")
	viper.SetDefault("MAIL_FROM", "noreply@listed.to")
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")

	viper.SetEnvPrefix("LISTED")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Support fallback loading from a .env file for local development
	viper.SetConfigFile(".env")
	// Ignore err if .env doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// RestrictedWords splits the comma-separated keyword setting. Blank entries
// are dropped so a stray comma never becomes a match-everything keyword.
func (c *Config) RestrictedWords() []string {
	var words []string
	for _, w := range strings.Split(c.RestrictedKeywords, ",") {
		w = strings.TrimSpace(w)
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
