package types

import (
	"context"
	"path"
	"strings"
	"time"
)

// Pipeline is one polling source definition produced by the configuration
// layer: which meters to poll, how often, and against which resources.
//
// The core treats pipelines as read-only inputs; they are rebuilt wholesale
// when configuration is reloaded.
type Pipeline struct {
	// Source is the source name the pipeline belongs to. Pollsters from
	// pipelines sharing a source publish into one batch per cycle.
	Source string `json:"source" yaml:"source"`

	// Interval is the polling period. Pipelines sharing an interval are
	// grouped into one polling task.
	Interval time.Duration `json:"interval" yaml:"interval"`

	// Meters lists the meter name patterns this pipeline accepts. Patterns
	// follow path.Match syntax; a leading "!" excludes matches and an
	// exclusion always wins over an inclusion.
	Meters []string `json:"meters" yaml:"meters"`

	// Resources is the static resource list, partitioned across
	// cooperating agents when coordination is enabled.
	Resources []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`

	// Discovery lists discovery URLs resolved each cycle, e.g.
	// "instance://" or "endpoint://region-one".
	Discovery []string `json:"discovery,omitempty" yaml:"discovery,omitempty"`
}

// SupportMeter reports whether the pipeline accepts the named meter.
//
// An excluded pattern ("!name" or "!glob") rejects the meter regardless of
// any inclusion. With only exclusions, every non-excluded meter is accepted;
// otherwise at least one inclusion must match.
func (p Pipeline) SupportMeter(name string) bool {
	included := false
	hasInclusions := false
	for _, pattern := range p.Meters {
		if excl, ok := strings.CutPrefix(pattern, "!"); ok {
			if matchMeter(excl, name) {
				return false
			}

			continue
		}
		hasInclusions = true
		if matchMeter(pattern, name) {
			included = true
		}
	}
	if !hasInclusions {
		return len(p.Meters) > 0
	}

	return included
}

// matchMeter matches a meter name against a glob pattern, treating a
// malformed pattern as a literal string.
func matchMeter(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	if err != nil {
		return pattern == name
	}

	return ok
}

// PipelineSource supplies the current pipeline definitions.
//
// Implementations live in the pipeline package (YAML file, static slice);
// the agent fetches pipelines once at startup.
type PipelineSource interface {
	// Pipelines returns the current pipeline definitions.
	Pipelines(ctx context.Context) ([]Pipeline, error)
}
