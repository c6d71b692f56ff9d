package logging

import "fmt"

// TestLogger is a plain-text Logger for tests: level-prefixed lines to
// stdout, Debug/Info gated behind verbose so quiet runs stay quiet while
// warnings and errors always surface.
type TestLogger struct {
	component string
	verbose   bool
}

// NewTestLogger creates a test logger. verbose enables Debug/Info output.
func NewTestLogger(verbose bool) *TestLogger {
	return &TestLogger{component: "test", verbose: verbose}
}

func (tl *TestLogger) log(level, msg string, fields ...Field) {
	fmt.Printf("[%s] %s: %s %v\n", level, tl.component, msg, fields)
}

func (tl *TestLogger) Debug(msg string, fields ...Field) {
	if tl.verbose {
		tl.log("DEBUG", msg, fields...)
	}
}

func (tl *TestLogger) Info(msg string, fields ...Field) {
	if tl.verbose {
		tl.log("INFO", msg, fields...)
	}
}

func (tl *TestLogger) Warn(msg string, fields ...Field) {
	tl.log("WARN", msg, fields...)
}

func (tl *TestLogger) Error(msg string, fields ...Field) {
	tl.log("ERROR", msg, fields...)
}

// With mirrors StdoutLogger: a "component" field renames the child logger,
// everything else is ignored.
func (tl *TestLogger) With(fields ...Field) Logger {
	child := &TestLogger{component: tl.component, verbose: tl.verbose}
	for _, f := range fields {
		if f.Key == "component" {
			if s, ok := f.Value.(string); ok {
				child.component = s
			}
		}
	}
	return child
}
