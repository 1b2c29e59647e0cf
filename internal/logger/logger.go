// Package logger provides leveled, structured logging for the catalog service.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Field is a single structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Uint creates an unsigned int field.
func Uint(key string, value uint32) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field, tolerating nil errors.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Info logs an informational message.
func Info(msg string, fields ...Field) {
	emit("INFO", msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Field) {
	emit("WARN", msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...Field) {
	emit("ERROR", msg, fields...)
}

// Debug logs a debug message. Suppressed unless LOG_LEVEL=debug.
func Debug(msg string, fields ...Field) {
	if os.Getenv("LOG_LEVEL") != "debug" {
		return
	}
	emit("DEBUG", msg, fields...)
}

func emit(level, msg string, fields ...Field) {
	if os.Getenv("LOG_FORMAT") == "json" {
		entry := map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"level":     level,
			"message":   msg,
		}
		for _, f := range fields {
			entry[f.Key] = f.Value
		}
		data, _ := json.Marshal(entry)
		log.Println(string(data))
		return
	}

	var b strings.Builder
	for _, f := range fields {
		b.WriteString(fmt.Sprintf(" %s=%v", f.Key, f.Value))
	}
	log.Printf("%s: %s%s", level, msg, b.String())
}
