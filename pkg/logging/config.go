package logging

const (
	LogsDir       = "logs"
	LogFileFormat = "2006-01-02.log"
)

type ProcessName string

const (
	APIProcess  ProcessName = "api"
	CLIProcess  ProcessName = "cli"
	TestProcess ProcessName = "test"
)

// LoggerConfig controls where and how verbosely a process logs.
// An empty LogDir keeps logging on stdout only.
type LoggerConfig struct {
	LogDir        string
	ProcessName   ProcessName
	IsDevelopment bool
}

func NewDefaultConfig(processName ProcessName) LoggerConfig {
	return LoggerConfig{
		ProcessName:   processName,
		IsDevelopment: true,
	}
}
