// Package config loads and validates the pipeline file: the install prefix,
// shared environment, and the ordered list of step declarations.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/depstrap/depstrap/internal/domain/pipeline"
	"github.com/depstrap/depstrap/internal/ports"
)

// DefaultCommandTimeout bounds each external invocation when the pipeline
// file does not set one. Native builds are slow; the bound exists to turn a
// hung configure script into a failure instead of blocking forever.
const DefaultCommandTimeout = 30 * time.Minute

// Pipeline is the root of the pipeline file.
type Pipeline struct {
	// Prefix is the shared install prefix all steps install into.
	Prefix string `yaml:"prefix" toml:"prefix"`
	// Env seeds the run environment, visible to every step. Values may
	// reference $PREFIX and host environment variables.
	Env map[string]string `yaml:"env" toml:"env"`
	// CommandTimeout bounds each external invocation, e.g. "45m".
	CommandTimeout string `yaml:"command_timeout" toml:"command_timeout"`
	// Steps is the ordered step list; dependencies must appear earlier.
	Steps []StepConfig `yaml:"steps" toml:"steps"`
}

// StepConfig declares one step in the pipeline file.
type StepConfig struct {
	Name      string            `yaml:"name" toml:"name"`
	Repo      string            `yaml:"repo" toml:"repo"`
	Ref       string            `yaml:"ref" toml:"ref"`
	Target    string            `yaml:"target" toml:"target"`
	Source    string            `yaml:"source" toml:"source"`
	Commands  [][]string        `yaml:"commands" toml:"commands"`
	DependsOn []string          `yaml:"depends_on" toml:"depends_on"`
	Exports   map[string]string `yaml:"exports" toml:"exports"`
}

// Validate checks the pipeline for structural problems: missing prefix,
// unparseable timeout, empty commands, and step ordering violations.
func (p *Pipeline) Validate() error {
	if p.Prefix == "" {
		return NewValidationError("prefix is required", "set prefix to the shared install directory, e.g. ./deps")
	}
	if p.CommandTimeout != "" {
		if _, err := time.ParseDuration(p.CommandTimeout); err != nil {
			return NewValidationError(
				fmt.Sprintf("command_timeout %q is not a duration", p.CommandTimeout),
				`use a Go duration string such as "45m" or "2h"`,
			)
		}
	}
	if len(p.Steps) == 0 {
		return NewValidationError("no steps declared", "add at least one entry under steps")
	}
	for _, s := range p.Steps {
		for i, cmd := range s.Commands {
			if len(cmd) == 0 || cmd[0] == "" {
				return NewValidationError(
					fmt.Sprintf("step %q: command %d is empty", s.Name, i+1),
					"every command needs a program name as its first element",
				)
			}
		}
	}
	return pipeline.ValidateDescriptors(p.Descriptors())
}

// Timeout returns the per-invocation timeout, falling back to the default.
// Call Validate first; an unparseable value falls back silently here.
func (p *Pipeline) Timeout() time.Duration {
	if p.CommandTimeout == "" {
		return DefaultCommandTimeout
	}
	d, err := time.ParseDuration(p.CommandTimeout)
	if err != nil {
		return DefaultCommandTimeout
	}
	return d
}

// InstallPrefix returns the prefix with ~ expanded.
func (p *Pipeline) InstallPrefix() string {
	return ports.ExpandPath(p.Prefix)
}

// Environment returns the seed environment with $PREFIX and host variables
// expanded in every value.
func (p *Pipeline) Environment() map[string]string {
	env := make(map[string]string, len(p.Env))
	for k, v := range p.Env {
		env[k] = p.expand(v)
	}
	return env
}

// Descriptors converts the step declarations into pipeline descriptors,
// expanding $PREFIX and host environment variables in paths, commands, and
// exports. List order is preserved.
func (p *Pipeline) Descriptors() []pipeline.StepDescriptor {
	descs := make([]pipeline.StepDescriptor, 0, len(p.Steps))
	for _, s := range p.Steps {
		d := pipeline.StepDescriptor{
			Name:       s.Name,
			TargetPath: ports.ExpandPath(p.expand(s.Target)),
			PinnedRef:  s.Ref,
			FetchSpec:  s.Repo,
			SourcePath: ports.ExpandPath(p.expand(s.Source)),
			DependsOn:  s.DependsOn,
		}
		for _, cmd := range s.Commands {
			if len(cmd) == 0 {
				continue
			}
			args := make([]string, 0, len(cmd)-1)
			for _, a := range cmd[1:] {
				args = append(args, p.expand(a))
			}
			d.BuildCommands = append(d.BuildCommands, pipeline.Command{
				Program: p.expand(cmd[0]),
				Args:    args,
			})
		}
		if len(s.Exports) > 0 {
			d.Exports = make(map[string]string, len(s.Exports))
			for k, v := range s.Exports {
				d.Exports[k] = p.expand(v)
			}
		}
		descs = append(descs, d)
	}
	return descs
}

// expand substitutes $PREFIX with the install prefix and any other defined
// variable with its host environment value. Undefined variables stay in the
// text as $NAME so a command like make still sees them; shell constructs
// such as $(CC) are never expansion candidates and pass through untouched.
func (p *Pipeline) expand(s string) string {
	return os.Expand(s, func(name string) string {
		if name == "PREFIX" {
			return p.InstallPrefix()
		}
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return "$" + name
	})
}
