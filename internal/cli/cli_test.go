package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// execute runs the root command and returns stdout, stderr and exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	code := run(root, args)
	return out.String(), errOut.String(), code
}

// testDirs returns fresh config and data directories as global flags.
func testDirs(t *testing.T) (configDir, dataDir string, flags []string) {
	t.Helper()
	t.Setenv("HABITS_LOG_LEVEL", "error")
	configDir = t.TempDir()
	dataDir = t.TempDir()
	return configDir, dataDir, []string{"--config-dir", configDir, "--data-dir", dataDir}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habits.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, code := execute(t, "version")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "habits v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	configDir, dataDir, flags := testDirs(t)

	out, errOut, code := execute(t, append(flags, "init")...)
	require.Equal(t, exitSuccess, code, errOut)
	assert.Contains(t, out, "Habits initialized")

	_, err := os.Stat(filepath.Join(dataDir, types.DatabaseFile))
	assert.NoError(t, err, "database file should be created")

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "listen: 127.0.0.1:5000")
	assert.Contains(t, string(data), "log_format: json")

	_, _, code = execute(t, append(flags, "init")...)
	assert.Equal(t, exitSuccess, code, "init is idempotent")
}

func TestInit_JSON(t *testing.T) {
	configDir, dataDir, flags := testDirs(t)

	out, _, code := execute(t, append(flags, "--json", "init")...)
	require.Equal(t, exitSuccess, code)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, configDir, got["config_dir"])
	assert.Equal(t, dataDir, got["data_dir"])
	assert.Equal(t, filepath.Join(dataDir, types.DatabaseFile), got["database"])
}

func TestInit_DataDirFromEnvironment(t *testing.T) {
	t.Setenv("HABITS_LOG_LEVEL", "error")
	dataDir := filepath.Join(t.TempDir(), "from-env")
	t.Setenv("HABITS_DATA_DIR", dataDir)

	_, errOut, code := execute(t, "--config-dir", t.TempDir(), "init")
	require.Equal(t, exitSuccess, code, errOut)

	_, err := os.Stat(filepath.Join(dataDir, types.DatabaseFile))
	assert.NoError(t, err)
}

func TestInit_InvalidLogFormat(t *testing.T) {
	_, _, flags := testDirs(t)
	t.Setenv("HABITS_LOG_FORMAT", "xml")

	_, errOut, code := execute(t, append(flags, "init")...)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "unknown log format")
}

func TestImportExport(t *testing.T) {
	_, _, flags := testDirs(t)
	src := writeCSV(t, "Habit Name,Icon,Date,Value\nExercise,🏃,2024-01-15,✓\nRead,📚,,\n")

	out, errOut, code := execute(t, append(flags, "import", src)...)
	require.Equal(t, exitSuccess, code, errOut)
	assert.Equal(t, "Imported 2 habits and 1 entries\n", out)

	want := "\ufeffHabit Name,Icon,Date,Value\r\nExercise,🏃,2024-01-15,COMPLETED\r\nRead,📚,,\r\n"

	t.Run("to file", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "out.csv")
		out, _, code := execute(t, append(flags, "export", "-o", dst)...)
		require.Equal(t, exitSuccess, code)
		assert.Equal(t, "Exported 2 rows to "+dst+"\n", out)

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	})

	t.Run("to stdout", func(t *testing.T) {
		out, _, code := execute(t, append(flags, "export", "--output", "-")...)
		require.Equal(t, exitSuccess, code)
		assert.Equal(t, want, out)
	})

	t.Run("json summary", func(t *testing.T) {
		out, _, code := execute(t, append(flags, "--json", "import", src)...)
		require.Equal(t, exitSuccess, code)
		assert.JSONEq(t, `{"habits":2,"entries":1}`, out)
	})
}

func TestImport_Errors(t *testing.T) {
	_, _, flags := testDirs(t)
	good := writeCSV(t, "h,i,d,v\nExercise,🏃,2024-01-15,30 min\n")
	_, _, code := execute(t, append(flags, "import", good)...)
	require.Equal(t, exitSuccess, code)

	t.Run("missing file", func(t *testing.T) {
		_, errOut, code := execute(t, append(flags, "import", filepath.Join(t.TempDir(), "nope.csv"))...)
		assert.Equal(t, exitUserError, code)
		assert.Contains(t, errOut, "nope.csv")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, code := execute(t, append(flags, "import")...)
		assert.Equal(t, exitUserError, code)
	})

	t.Run("invalid record keeps data", func(t *testing.T) {
		bad := writeCSV(t, "h,i,d,v\nRead,📚,2024-01-15,✓\nWalk,🚶,tomorrow,x\n")
		_, errOut, code := execute(t, append(flags, "import", bad)...)
		assert.Equal(t, exitUserError, code)
		assert.Contains(t, errOut, "record 2")

		out, _, code := execute(t, append(flags, "export", "-o", "-")...)
		require.Equal(t, exitSuccess, code)
		assert.Contains(t, out, "Exercise,🏃,2024-01-15,30 min")
		assert.NotContains(t, out, "Read")
	})
}

func TestCleanup(t *testing.T) {
	_, _, flags := testDirs(t)

	out, _, code := execute(t, append(flags, "cleanup")...)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "Removed 0 duplicate entries\n", out)

	out, _, code = execute(t, append(flags, "--json", "cleanup")...)
	require.Equal(t, exitSuccess, code)
	assert.JSONEq(t, `{"deleted_count":0}`, out)
}

func TestUnknownCommand(t *testing.T) {
	_, errOut, code := execute(t, "frobnicate")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "unknown command")
}
