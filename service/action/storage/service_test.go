package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_writeReadRoundTrip(t *testing.T) {
	service, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var written WriteOutput
	err = service.Write(ctx, &WriteInput{
		Path:    "src/app.py",
		Content: "import os\nprint(\"hello\")\n",
	}, &written)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("src", "app.py"), written.Path)
	assert.Contains(t, written.Message, "Successfully saved")

	var read ReadOutput
	err = service.Read(ctx, &ReadInput{Path: "src/app.py"}, &read)
	assert.NoError(t, err)
	assert.Equal(t, "import os\nprint(\"hello\")\n", read.Content)

	err = service.Read(ctx, &ReadInput{Path: "missing.txt"}, &ReadOutput{})
	assert.Error(t, err)
}

func TestService_sandboxContainment(t *testing.T) {
	service, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var testCases = []struct {
		description string
		path        string
	}{
		{description: "parent escape", path: "../outside.txt"},
		{description: "nested escape", path: "src/../../outside.txt"},
		{description: "absolute outside", path: "/etc/passwd"},
	}
	for _, testCase := range testCases {
		err := service.Write(ctx, &WriteInput{Path: testCase.path, Content: "x"}, &WriteOutput{})
		assert.True(t, errors.Is(err, ErrOutsideSandbox), testCase.description)
		err = service.Read(ctx, &ReadInput{Path: testCase.path}, &ReadOutput{})
		assert.True(t, errors.Is(err, ErrOutsideSandbox), testCase.description)
	}

	// absolute paths inside the workspace are fine
	inside := filepath.Join(service.Root(), "inside.txt")
	err = service.Write(ctx, &WriteInput{Path: inside, Content: "ok"}, &WriteOutput{})
	assert.NoError(t, err)
}

func TestService_listAndFilter(t *testing.T) {
	service, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, path := range []string{"main.py", "util.py", "notes.md", "pkg/extra.py"} {
		require.NoError(t, service.Write(ctx, &WriteInput{Path: path, Content: "content"}, &WriteOutput{}))
	}

	var listed ListOutput
	err = service.List(ctx, &ListInput{}, &listed)
	assert.NoError(t, err)
	var names []string
	for _, asset := range listed.Assets {
		names = append(names, asset.Path)
	}
	assert.Contains(t, names, "main.py")
	assert.Contains(t, names, "notes.md")
	assert.Contains(t, names, "pkg")

	var filtered ListOutput
	err = service.List(ctx, &ListInput{Recursive: true, FileType: ".py"}, &filtered)
	assert.NoError(t, err)
	names = nil
	for _, asset := range filtered.Assets {
		names = append(names, asset.Path)
	}
	assert.Equal(t, []string{"main.py", filepath.Join("pkg", "extra.py"), "util.py"}, names)
}

func TestService_createDirectory(t *testing.T) {
	service, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var created MkdirOutput
	err = service.CreateDirectory(ctx, &MkdirInput{Path: "a/b/c"}, &created)
	assert.NoError(t, err)

	// a file can be written under the new directory
	err = service.Write(ctx, &WriteInput{Path: "a/b/c/file.txt", Content: "x"}, &WriteOutput{})
	assert.NoError(t, err)

	// creating an existing directory is not an error
	err = service.CreateDirectory(ctx, &MkdirInput{Path: "a/b/c"}, &MkdirOutput{})
	assert.NoError(t, err)
}
