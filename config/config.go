package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Gemini   Gemini
	Log      Log
	Grading  Grading
}

type Server struct {
	Port string
}

type Database struct {
	Driver   string // "postgres" or "sqlite"
	DSN      string // overrides the individual fields when set
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Gemini struct {
	ApiKey string
	Model  string
}

type Log struct {
	Level  string
	Pretty bool
}

type Grading struct {
	Articles []string
	Workers  int
}

// NewConfig reads .env and the environment once at startup. The result is
// never mutated afterwards.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GRADING_ARTICLES", "a,an,the")
	v.SetDefault("GRADING_WORKERS", 8)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	return FromViper(v), nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Database.Driver = strings.ToLower(v.GetString("DATABASE_DRIVER"))
	config.Database.DSN = v.GetString("DATABASE_DSN")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")

	config.Gemini.ApiKey = v.GetString("GEMINI_API_KEY")
	config.Gemini.Model = v.GetString("GEMINI_MODEL")

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Pretty = v.GetBool("LOG_PRETTY")

	config.Grading.Articles = splitList(v.GetString("GRADING_ARTICLES"))
	config.Grading.Workers = v.GetInt("GRADING_WORKERS")

	log.Info().
		Str("port", config.Server.Port).
		Str("dbDriver", config.Database.Driver).
		Str("dbHost", config.Database.Host).
		Str("geminiModel", config.Gemini.Model).
		Bool("geminiEnabled", config.Gemini.ApiKey != "").
		Strs("articles", config.Grading.Articles).
		Int("gradingWorkers", config.Grading.Workers).
		Msg("Config loaded")
	return &config
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
