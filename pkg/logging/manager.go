package logging

import "sync"

// process-wide logger shared by the CLI commands and the API server
var (
	processLogger *ZapLogger
	processOnce   sync.Once
)

// InitServiceLogger builds the process logger. Only the first call has an
// effect; later calls keep the existing logger and return nil.
func InitServiceLogger(config LoggerConfig) error {
	var err error
	processOnce.Do(func() {
		processLogger, err = NewZapLogger(config)
	})
	return err
}

// GetServiceLogger panics when InitServiceLogger has not succeeded.
func GetServiceLogger() Logger {
	if processLogger == nil {
		panic("logging: InitServiceLogger must run before GetServiceLogger")
	}
	return processLogger
}

func Shutdown() {
	if processLogger == nil {
		return
	}
	// syncing stdout fails with EINVAL on most terminals
	_ = processLogger.Sync()
}
