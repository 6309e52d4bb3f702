package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanheven/ceilometer-1/types"
)

func TestParse(t *testing.T) {
	t.Run("parses a complete definition", func(t *testing.T) {
		pipelines, err := Parse([]byte(`
sources:
  - name: cpu_source
    interval: 60s
    meters:
      - "cpu"
      - "cpu.util"
    resources:
      - "vm-1"
      - "vm-2"
  - name: discovered_source
    interval: 600
    meters:
      - "*"
      - "!cpu*"
    discovery:
      - "instance://"
`))
		require.NoError(t, err)
		require.Len(t, pipelines, 2)

		require.Equal(t, types.Pipeline{
			Source:    "cpu_source",
			Interval:  time.Minute,
			Meters:    []string{"cpu", "cpu.util"},
			Resources: []types.Resource{"vm-1", "vm-2"},
		}, pipelines[0])

		require.Equal(t, types.Pipeline{
			Source:    "discovered_source",
			Interval:  10 * time.Minute,
			Meters:    []string{"*", "!cpu*"},
			Discovery: []string{"instance://"},
		}, pipelines[1])
	})

	t.Run("interval accepts bare seconds and duration strings", func(t *testing.T) {
		for raw, want := range map[string]time.Duration{
			"30":    30 * time.Second,
			"90s":   90 * time.Second,
			"10m":   10 * time.Minute,
			"1h30m": 90 * time.Minute,
		} {
			pipelines, err := Parse([]byte(`
sources:
  - name: src
    interval: ` + raw + `
    meters: ["*"]
`))
			require.NoError(t, err, "interval %q", raw)
			require.Equal(t, want, pipelines[0].Interval, "interval %q", raw)
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("sources: ["))
		require.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("rejects an empty definition", func(t *testing.T) {
		_, err := Parse([]byte("sources: []"))
		require.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("rejects a nameless source", func(t *testing.T) {
		_, err := Parse([]byte(`
sources:
  - interval: 60s
    meters: ["*"]
`))
		require.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("rejects duplicate source names", func(t *testing.T) {
		_, err := Parse([]byte(`
sources:
  - name: src
    interval: 60s
    meters: ["*"]
  - name: src
    interval: 30s
    meters: ["cpu"]
`))
		require.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("rejects a non-positive interval", func(t *testing.T) {
		_, err := Parse([]byte(`
sources:
  - name: src
    interval: 0
    meters: ["*"]
`))
		require.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("rejects an unparsable interval", func(t *testing.T) {
		_, err := Parse([]byte(`
sources:
  - name: src
    interval: soon
    meters: ["*"]
`))
		require.Error(t, err)
	})

	t.Run("rejects a source without meters", func(t *testing.T) {
		_, err := Parse([]byte(`
sources:
  - name: src
    interval: 60s
`))
		require.ErrorIs(t, err, ErrInvalidDefinition)
	})
}

func TestFileSource(t *testing.T) {
	t.Run("loads pipelines from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pipeline.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - name: src
    interval: 60s
    meters: ["cpu"]
`), 0o600))

		src := NewFileSource(path)
		pipelines, err := src.Pipelines(t.Context())
		require.NoError(t, err)
		require.Len(t, pipelines, 1)
		require.Equal(t, "src", pipelines[0].Source)
	})

	t.Run("missing file surfaces an error", func(t *testing.T) {
		src := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := src.Pipelines(t.Context())
		require.Error(t, err)
	})
}

func TestStaticSource(t *testing.T) {
	original := []types.Pipeline{{Source: "src", Interval: time.Minute, Meters: []string{"*"}}}
	src := NewStatic(original...)

	pipelines, err := src.Pipelines(t.Context())
	require.NoError(t, err)
	require.Equal(t, original, pipelines)

	// Callers get a copy; mutating it never affects the source.
	pipelines[0].Source = "mutated"
	again, err := src.Pipelines(t.Context())
	require.NoError(t, err)
	require.Equal(t, "src", again[0].Source)
}
