package flagx

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvString overwrites *dst with the first non-empty variable in keys.
func EnvString(dst *string, keys ...string) {
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
			return
		}
	}
}

// EnvInt64 overwrites *dst when key holds a valid integer.
// Malformed values are reported so the caller can fail fast.
func EnvInt64(dst *int64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return &EnvError{Key: key, Err: err}
	}
	*dst = n
	return nil
}

// EnvDuration overwrites *dst when key holds a value accepted by time.ParseDuration.
func EnvDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return &EnvError{Key: key, Err: err}
	}
	*dst = d
	return nil
}

// EnvError names the variable that failed to parse.
type EnvError struct {
	Key string
	Err error
}

func (e *EnvError) Error() string { return "env " + e.Key + ": " + e.Err.Error() }

func (e *EnvError) Unwrap() error { return e.Err }
