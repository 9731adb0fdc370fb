package domain

import "fmt"

// ErrQuery reports a failed OS metrics query. It stays inside the module
// that issued the query and is only ever logged.
type ErrQuery struct {
	Source string
	Err    error
}

func (e ErrQuery) Error() string {
	return fmt.Sprintf("query %s: %v", e.Source, e.Err)
}

func (e ErrQuery) Unwrap() error {
	return e.Err
}

// ErrNoBattery means the host exposes no battery at all.
type ErrNoBattery struct{}

func (e ErrNoBattery) Error() string {
	return "no battery present"
}

// ErrConfig reports an invalid configuration value.
type ErrConfig struct {
	Field  string
	Reason string
}

func (e ErrConfig) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}
