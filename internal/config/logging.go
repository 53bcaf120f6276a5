package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets the global logrus formatter and level for the environment.
func ConfigureLogging(cfg *Config) {
	log.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL=%q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
