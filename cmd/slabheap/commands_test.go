package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slabheap/heap"
	"github.com/vkngwrapper/slabheap/kalloc"
	"github.com/vkngwrapper/slabheap/memutils"
)

// runCommand executes the root command with args and returns what it wrote to stdout
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	output, _, err := runCommandWithLogs(t, args...)
	return output, err
}

// runCommandWithLogs executes the root command with args and returns what it wrote to stdout and stderr
func runCommandWithLogs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	heapSize = heap.MinSize
	statsWorkloads = nil
	statsDetailed = false
	statsLeaks = false
	statsUnsynced = false

	var out, logs bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&logs)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), logs.String(), err
}

func writeWorkload(t *testing.T, source string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestMinSizeCommand(t *testing.T) {
	output, err := runCommand(t, "minsize")
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(heap.MinSize)+"\n", output)
}

func TestClassesCommand(t *testing.T) {
	output, err := runCommand(t, "classes", "--size", strconv.Itoa(2*heap.MinSize))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, heap.NumSizeClasses+1)
	require.Equal(t, []string{"Slab8", "8", "0", "32768", "4032"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"Slab1024", "1024", "229376", "32768", "31"}, strings.Fields(lines[8]))
}

func TestClassesCommandRejectsBadSize(t *testing.T) {
	_, err := runCommand(t, "classes", "--size", "1000")
	require.ErrorContains(t, err, "heap size is less than minimum heap size")
}

func TestStatsCommand(t *testing.T) {
	path := writeWorkload(t, `
name: skewed
steps:
  - {op: alloc, id: small, size: 24, count: 10, verify: true}
  - {op: alloc, id: big, size: 1000, count: 3}
  - {op: free, id: small}
`)

	output, err := runCommand(t, "stats", "--workload", path, "--detailed")
	require.NoError(t, err)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	require.EqualValues(t, heap.MinSize, stats["HeapBytes"])
	require.Contains(t, stats, "DetailedMap")

	total := stats["Total"].(map[string]any)
	require.EqualValues(t, 3, total["AllocationCount"])
}

func TestStatsCommandLeavesProcessHeapAlone(t *testing.T) {
	for i := 0; i < 2; i++ {
		output, err := runCommand(t, "stats")
		require.NoError(t, err)
		require.Contains(t, output, "HeapBytes")
	}

	require.False(t, kalloc.Default.(*kalloc.Global).Initialized())
	require.Nil(t, kalloc.Alloc(kalloc.NewLayout(16, 8)))

	_, err := kalloc.ProcessHeap()
	require.ErrorIs(t, err, memutils.NotInitializedError)
}

func TestStatsCommandLogsLeaks(t *testing.T) {
	path := writeWorkload(t, `
name: leaky
steps:
  - {op: alloc, id: kept, size: 100, count: 2}
`)

	_, logs, err := runCommandWithLogs(t, "stats", "--workload", path, "--leaks")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(logs, "[UNRELEASED MEMORY] live block"))
	require.Contains(t, logs, "class=Slab128")
	require.Contains(t, logs, "count=2")

	_, logs, err = runCommandWithLogs(t, "stats", "--workload", path)
	require.NoError(t, err)
	require.NotContains(t, logs, "[UNRELEASED MEMORY]")
}

func TestStatsCommandExternallySynchronized(t *testing.T) {
	_, logs, err := runCommandWithLogs(t, "stats", "--externally-synchronized")
	require.NoError(t, err)
	require.Contains(t, logs, "flags=HeapCreateExternallySynchronized")

	_, logs, err = runCommandWithLogs(t, "stats")
	require.NoError(t, err)
	require.Contains(t, logs, "flags=None")
}
