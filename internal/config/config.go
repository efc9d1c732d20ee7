package config

import (
	"github.com/spf13/viper"

	"github.com/mrlokans/annotator/internal/utils"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Annotations
		Dictionary
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Log struct {
		Level string
		File  string // empty means stderr
	}
	Annotations struct {
		// RejectOverlaps refuses new annotations that intersect an existing
		// one instead of letting the renderer clip them.
		RejectOverlaps bool
		DefaultColor   string
	}
	Dictionary struct {
		Enabled bool
		BaseURL string
	}
	Tasks struct {
		Enabled bool
		Workers int
		// EnrichSchedule is a five-field cron expression; empty disables the sweep.
		EnrichSchedule string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("annotations_reject_overlaps", false)
	v.SetDefault("annotations_default_color", utils.DefaultHighlightColor)
	v.SetDefault("dictionary_enabled", true)
	v.SetDefault("dictionary_base_url", "")
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", DefaultTaskWorkers)
	v.SetDefault("enrich_schedule", DefaultEnrichSchedule)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Annotations: Annotations{
			RejectOverlaps: v.GetBool("ANNOTATIONS_REJECT_OVERLAPS"),
			DefaultColor:   v.GetString("ANNOTATIONS_DEFAULT_COLOR"),
		},
		Dictionary: Dictionary{
			Enabled: v.GetBool("DICTIONARY_ENABLED"),
			BaseURL: v.GetString("DICTIONARY_BASE_URL"),
		},
		Tasks: Tasks{
			Enabled:        v.GetBool("TASKS_ENABLED"),
			Workers:        v.GetInt("TASK_WORKERS"),
			EnrichSchedule: v.GetString("ENRICH_SCHEDULE"),
		},
	}
}
