package observability

import (
	"log"
	"os"
)

type Logger struct {
	logger *log.Logger
}

func NewLogger() *Logger {
	return &Logger{logger: log.New(os.Stdout, "", log.LstdFlags|log.LUTC)}
}

func (l *Logger) Info(msg string) {
	l.logger.Println("INFO " + msg)
}

func (l *Logger) Warn(msg string) {
	l.logger.Println("WARN " + msg)
}

func (l *Logger) Error(msg string) {
	l.logger.Println("ERROR " + msg)
}
