package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the lessons database
	DefaultDatabasePath = "./annotator.db"
)

const (
	DefaultPort     = 8188
	DefaultLogLevel = "info"
)

const (
	DefaultTaskWorkers    = 2
	DefaultEnrichSchedule = "*/30 * * * *"
)
