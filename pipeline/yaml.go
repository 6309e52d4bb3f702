package pipeline

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanheven/ceilometer-1/types"
)

// ErrInvalidDefinition is returned when a pipeline definition file is
// malformed.
var ErrInvalidDefinition = errors.New("invalid pipeline definition")

// definitionFile is the on-disk shape of a pipeline definition file.
type definitionFile struct {
	Sources []sourceSpec `yaml:"sources"`
}

// sourceSpec is one source entry of a definition file.
type sourceSpec struct {
	Name      string           `yaml:"name"`
	Interval  duration         `yaml:"interval"`
	Meters    []string         `yaml:"meters"`
	Resources []types.Resource `yaml:"resources"`
	Discovery []string         `yaml:"discovery"`
}

// duration parses either a Go duration string ("600s") or a bare number of
// seconds (600), matching older definition files that counted in seconds.
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var seconds int64
	if err := node.Decode(&seconds); err == nil {
		*d = duration(time.Duration(seconds) * time.Second)

		return nil
	}

	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("interval must be a duration string or seconds: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", raw, err)
	}
	*d = duration(parsed)

	return nil
}

// LoadFile reads and validates the pipeline definition file at path.
func LoadFile(path string) ([]types.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline definition file: %w", err)
	}

	pipelines, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return pipelines, nil
}

// Parse decodes and validates pipeline definitions from YAML.
func Parse(data []byte) ([]types.Pipeline, error) {
	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("%w: no sources defined", ErrInvalidDefinition)
	}

	seen := make(map[string]struct{}, len(file.Sources))
	pipelines := make([]types.Pipeline, 0, len(file.Sources))
	for i, src := range file.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("%w: source %d has no name", ErrInvalidDefinition, i)
		}
		if _, ok := seen[src.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate source name %q", ErrInvalidDefinition, src.Name)
		}
		seen[src.Name] = struct{}{}
		if src.Interval <= 0 {
			return nil, fmt.Errorf("%w: source %q needs a positive interval", ErrInvalidDefinition, src.Name)
		}
		if len(src.Meters) == 0 {
			return nil, fmt.Errorf("%w: source %q lists no meters", ErrInvalidDefinition, src.Name)
		}

		pipelines = append(pipelines, types.Pipeline{
			Source:    src.Name,
			Interval:  time.Duration(src.Interval),
			Meters:    src.Meters,
			Resources: src.Resources,
			Discovery: src.Discovery,
		})
	}

	return pipelines, nil
}
