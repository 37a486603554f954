package logging

import "sync"

// MockLogger is a mock implementation of the Logger interface for testing.
// It captures log entries for verification in tests. Recording is safe for
// concurrent use.
type MockLogger struct {
	Entries []LogEntry

	mu            sync.Mutex
	root          *MockLogger
	pendingError  error
	pendingFields []Field
}

// LogEntry represents a single log entry captured by MockLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// sink resolves the logger that owns the entry slice, so entries recorded
// through WithError/WithFields children land on the original logger.
func (m *MockLogger) sink() *MockLogger {
	if m.root != nil {
		return m.root
	}
	return m
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	allFields := append(append([]Field{}, m.pendingFields...), fields...)
	s := m.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
		Error:   m.pendingError,
	})
}

// Debug logs a debug-level message with optional fields.
func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("DEBUG", msg, fields) }

// Info logs an info-level message with optional fields.
func (m *MockLogger) Info(msg string, fields ...Field) { m.record("INFO", msg, fields) }

// Warn logs a warning-level message with optional fields.
func (m *MockLogger) Warn(msg string, fields ...Field) { m.record("WARN", msg, fields) }

// Error logs an error-level message with optional fields.
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("ERROR", msg, fields) }

// Fatal records a fatal-level message. Unlike a real logger it does not exit,
// so tests can assert on it.
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("FATAL", msg, fields) }

// WithError returns a new logger with an error attached to subsequent entries.
func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{
		root:          m.sink(),
		pendingError:  err,
		pendingFields: m.pendingFields,
	}
}

// WithField returns a new logger with a single field attached.
func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

// WithFields returns a new logger with multiple fields attached.
func (m *MockLogger) WithFields(fields ...Field) Logger {
	return &MockLogger{
		root:          m.sink(),
		pendingError:  m.pendingError,
		pendingFields: append(append([]Field{}, m.pendingFields...), fields...),
	}
}

// HasEntry reports whether an entry with the given level and message was recorded.
func (m *MockLogger) HasEntry(level, msg string) bool {
	s := m.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.Entries {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
