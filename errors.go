package main

import "fmt"

// SourceError reports media that could not be opened or decoded. It is
// fatal to the load operation only: playback never starts, but the
// process keeps running and can accept a new path.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("media source %q: %s", e.Path, e.Err.Error())
}

func (e *SourceError) Unwrap() error { return e.Err }

func sourceErr(path string, err error) error {
	return &SourceError{Path: path, Err: err}
}

// IOError reports a best-effort terminal operation that failed. Callers
// log it and retain the last known state.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("terminal %s: %s", e.Op, e.Err.Error())
}

func (e *IOError) Unwrap() error { return e.Err }

// ConfigError reports a single invalid persisted setting. The field is
// ignored and its default retained; loading continues.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %q: %s", e.Field, e.Reason)
}
