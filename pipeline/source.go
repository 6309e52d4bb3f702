package pipeline

import (
	"context"
	"slices"

	"github.com/yanheven/ceilometer-1/types"
)

// StaticSource serves a fixed pipeline list.
type StaticSource struct {
	pipelines []types.Pipeline
}

// Compile-time assertion that StaticSource implements PipelineSource.
var _ types.PipelineSource = (*StaticSource)(nil)

// NewStatic creates a source serving the given pipelines as-is.
func NewStatic(pipelines ...types.Pipeline) *StaticSource {
	return &StaticSource{pipelines: slices.Clone(pipelines)}
}

// Pipelines returns the configured pipelines.
func (s *StaticSource) Pipelines(_ context.Context) ([]types.Pipeline, error) {
	return slices.Clone(s.pipelines), nil
}

// FileSource reads pipeline definitions from a YAML file on every call, so
// a restarted agent picks up edits without recompiling anything.
type FileSource struct {
	path string
}

// Compile-time assertion that FileSource implements PipelineSource.
var _ types.PipelineSource = (*FileSource)(nil)

// NewFileSource creates a source reading the YAML definition file at path.
// The file is not opened until Pipelines is called.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Pipelines loads and validates the definition file.
func (s *FileSource) Pipelines(_ context.Context) ([]types.Pipeline, error) {
	return LoadFile(s.path)
}
