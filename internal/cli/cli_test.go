package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgeo/pkg/errors"
	"github.com/matzehuels/floorgeo/pkg/pipeline"
)

// The path (0,0)-(1,0)-(1,1) turned once about its centroid has nodes near
// (1/3, 1), (1/3, 0) and (4/3, 0).
const pathCSV = `x1,y1,x2,y2,weight
0,0,1,0,1
1,0,1,1,1
`

const projectTOML = `
input = "edges.csv"
output = "out/graph.geojson"
rotations = 1

[[control_points]]
name = "a"
source = { x = 0.3333333333, y = 1 }
target = { lon = 10, lat = 10 }

[[control_points]]
name = "b"
source = { x = %s, y = 0 }
target = { lon = 20, lat = 20 }
`

func writeProject(t *testing.T, secondX string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edges.csv"), []byte(pathCSV), 0644))
	path := filepath.Join(dir, "floorgeo.toml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(projectTOML, secondX)), 0644))
	return path
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRunCommand(t *testing.T) {
	out := captureStdout(t)
	project := writeProject(t, "1.3333333333")

	require.NoError(t, execute(t, "run", "--config", project))

	output := filepath.Join(filepath.Dir(project), "out", "graph.geojson")
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FeatureCollection")
	assert.Contains(t, out.String(), "Georeferenced floor plan")
	assert.Contains(t, out.String(), output)
}

func TestRunCommandOutputFlag(t *testing.T) {
	captureStdout(t)
	project := writeProject(t, "1.3333333333")
	output := filepath.Join(t.TempDir(), "elsewhere.geojson")

	require.NoError(t, execute(t, "run", "--config", project, "--output", output))

	_, err := os.Stat(output)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(project), "out", "graph.geojson"))
	assert.True(t, os.IsNotExist(err), "config output must be overridden")
}

func TestRunCommandStageError(t *testing.T) {
	captureStdout(t)
	project := writeProject(t, "50")

	err := execute(t, "run", "--config", project)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeControlPointNotFound))
	assert.True(t, strings.HasPrefix(FormatError(err), "stage locate: CONTROL_POINT_NOT_FOUND: "), FormatError(err))
	assert.Equal(t, ExitError, ExitCode(err))

	_, statErr := os.Stat(filepath.Join(filepath.Dir(project), "out", "graph.geojson"))
	assert.True(t, os.IsNotExist(statErr), "failed run must not write output")
}

func TestRunCommandStopAfter(t *testing.T) {
	out := captureStdout(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "edges.csv")
	require.NoError(t, os.WriteFile(input, []byte(pathCSV), 0644))

	require.NoError(t, execute(t, "run", "--input", input, "--stop-after", "rotate"))
	assert.Contains(t, out.String(), "Stopped after rotate")
}

func TestRunCommandInvalidStage(t *testing.T) {
	captureStdout(t)
	err := execute(t, "run", "--input", "edges.csv", "--stop-after", "layout")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRunCommandMissingConfig(t *testing.T) {
	err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestInspectCommand(t *testing.T) {
	out := captureStdout(t)
	project := writeProject(t, "1.3333333333")

	require.NoError(t, execute(t, "inspect", "--config", project))
	s := out.String()
	assert.Contains(t, s, "nodes")
	assert.Contains(t, s, "centroid")
	assert.Contains(t, s, "(0.6666666666666666, 0.3333333333333333)")
}

func TestPreviewCommandDOT(t *testing.T) {
	out := captureStdout(t)
	project := writeProject(t, "1.3333333333")

	require.NoError(t, execute(t, "preview", "--config", project, "--format", "dot", "--stage", "build"))
	assert.True(t, strings.HasPrefix(out.String(), "graph G"), out.String())
	assert.Equal(t, 2, strings.Count(out.String(), " -- "))
}

func TestPreviewCommandFile(t *testing.T) {
	captureStdout(t)
	project := writeProject(t, "1.3333333333")
	file := filepath.Join(t.TempDir(), "preview.dot")

	require.NoError(t, execute(t, "preview", "--config", project, "--format", "dot", "--file", file))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "graph G")
}

func TestPreviewCommandInvalidFormat(t *testing.T) {
	err := execute(t, "preview", "--format", "png")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCompletionCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "floorgeo")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitError, ExitCode(errors.New(errors.ErrCodeInvalidInput, "bad")))
	assert.Equal(t, ExitInterrupted, ExitCode(&pipeline.StageError{Stage: pipeline.StageLoad, Err: context.Canceled}))
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", errors.New(errors.ErrCodeEmptyGraph, "graph has no nodes"), "EMPTY_GRAPH: graph has no nodes"},
		{"plain", fmt.Errorf("boom"), "boom"},
		{
			"stage",
			&pipeline.StageError{Stage: pipeline.StageFit, Err: errors.New(errors.ErrCodeDegenerateCorrespondence, "same x")},
			"stage fit: DEGENERATE_CORRESPONDENCE: same x",
		},
		{"canceled", &pipeline.StageError{Stage: pipeline.StageLoad, Err: context.Canceled}, "stage load: context canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatError(tt.err))
		})
	}
}
