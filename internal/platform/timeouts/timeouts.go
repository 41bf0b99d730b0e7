// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ScenarioStep caps one scripted scenario step.
const ScenarioStep = 10 * time.Second

// TelemetryShutdown limits how long a command waits for buffered spans to
// flush on exit.
const TelemetryShutdown = 5 * time.Second
