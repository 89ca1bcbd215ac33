package config

const (
	ReadingTopic = "bridge/reading"

	DefaultPollIntervalSeconds   = 300
	DefaultRequestTimeoutSeconds = 15
	DefaultPort                  = "8080"
)
