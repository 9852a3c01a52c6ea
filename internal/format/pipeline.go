// Package format runs external formatter commands before and after a
// merge. The merge core itself never shells out; normalization is an
// explicit pipeline stage around it, defined in a YAML file so teams
// can swap ruff for whatever their stubs repo standardizes on.
package format

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"

	"stubdoc/internal/errors"
	"stubdoc/internal/logging"
)

// FilePlaceholder in a step's arguments is replaced with the stub path.
const FilePlaceholder = "{file}"

// Step is one formatter invocation.
type Step struct {
	// Name labels the step in logs
	Name string `yaml:"name"`
	// Command is the argv to run; {file} expands to the stub path
	Command []string `yaml:"command"`
}

// Pipeline defines the formatter steps surrounding a merge.
type Pipeline struct {
	// Pre runs before the merge reads the stub
	Pre []Step `yaml:"pre"`
	// Post runs after the merged stub is written
	Post []Step `yaml:"post"`
}

// Load reads a pipeline definition from a YAML file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "reading pipeline file %s", path)
	}

	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Newf(errors.ConfigError, err, "parsing pipeline file %s", path)
	}
	for _, step := range append(append([]Step{}, p.Pre...), p.Post...) {
		if len(step.Command) == 0 {
			return nil, errors.Newf(errors.ConfigError, nil, "pipeline step %q has no command", step.Name)
		}
	}
	return &p, nil
}

// RunPre executes the pre-merge steps against a stub file.
func (p *Pipeline) RunPre(ctx context.Context, logger *logging.Logger, file string) error {
	return runSteps(ctx, logger, p.Pre, file, "pre")
}

// RunPost executes the post-merge steps against a stub file.
func (p *Pipeline) RunPost(ctx context.Context, logger *logging.Logger, file string) error {
	return runSteps(ctx, logger, p.Post, file, "post")
}

func runSteps(ctx context.Context, logger *logging.Logger, steps []Step, file, stage string) error {
	for _, step := range steps {
		argv := expand(step.Command, file)

		logger.Debug("Running formatter step", map[string]interface{}{
			"stage":   stage,
			"step":    step.Name,
			"command": strings.Join(argv, " "),
		})

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return errors.Newf(errors.FormatterFailed, err, "%s step %q on %s: %s",
				stage, step.Name, file, strings.TrimSpace(stderr.String()))
		}
	}
	return nil
}

// expand substitutes the stub path for {file} in a copy of argv.
func expand(argv []string, file string) []string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = strings.ReplaceAll(arg, FilePlaceholder, file)
	}
	return out
}
