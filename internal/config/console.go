package config

import (
	"os"
	"time"
)

type ConsoleConfig struct {
	PushInterval time.Duration
	BufferSize   int
	BacklogSize  int
	Heartbeat    bool
}

func NewConsoleConfig() *ConsoleConfig {
	return &ConsoleConfig{
		PushInterval: getMillisEnv("CONSOLE_PUSH_INTERVAL_MS", 2000*time.Millisecond),
		BufferSize:   getIntEnv("CONSOLE_BUFFER_SIZE", 256),
		BacklogSize:  getIntEnv("CONSOLE_BACKLOG_SIZE", 500),
		Heartbeat:    os.Getenv("CONSOLE_HEARTBEAT") == "true",
	}
}

type ExecutionConfig struct {
	StepDelay time.Duration
}

func NewExecutionConfig() *ExecutionConfig {
	return &ExecutionConfig{
		StepDelay: getMillisEnv("EXECUTION_STEP_DELAY_MS", 250*time.Millisecond),
	}
}
