package app

import (
	"errors"
	"fmt"
	"os/exec"
)

var LookPath = exec.LookPath

var ErrEnvironmentMismatch = errors.New("wrong runtime environment")

func HasExecutable(name string) bool {
	if name == "" {
		return false
	}
	_, err := LookPath(name)
	return err == nil
}

// EnvCheck is the outcome of CheckEnvironment.
type EnvCheck struct {
	OK       bool
	Variable string
	Want     string
	Got      string
	Reason   string
}

// Err returns nil for a passing check and an ErrEnvironmentMismatch
// wrapper otherwise.
func (c EnvCheck) Err() error {
	if c.OK {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEnvironmentMismatch, c.Reason)
}

// CheckEnvironment reports whether variable is set to want. An empty want
// disables the check.
func CheckEnvironment(lookup func(string) (string, bool), variable, want string) EnvCheck {
	check := EnvCheck{Variable: variable, Want: want}
	if want == "" {
		check.OK = true
		return check
	}
	got, ok := lookup(variable)
	if !ok || got == "" {
		check.Reason = fmt.Sprintf("%s is not set", variable)
		return check
	}
	check.Got = got
	if got != want {
		check.Reason = fmt.Sprintf("%s is %q, want %q", variable, got, want)
		return check
	}
	check.OK = true
	return check
}
