package services

import (
	"context"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mckeeper/internal/models"
)

const readyLine = `echo '[00:00:00] [Server thread/INFO]: Done (1.2s)! For help, type "help"'`

// obedientScript prints the ready line and then behaves like a server
// console: it exits when "stop" arrives on stdin.
const obedientScript = readyLine + `
while read line; do
  if [ "$line" = "stop" ]; then exit 0; fi
done`

// stubbornScript reports ready but ignores the stop command.
const stubbornScript = readyLine + `
exec sleep 60`

func testOptions() SupervisorOptions {
	return SupervisorOptions{
		StartTimeout: 5 * time.Second,
		StopTimeout:  300 * time.Millisecond,
		KillGrace:    300 * time.Millisecond,
		RestartDelay: 50 * time.Millisecond,
		BufferSize:   20,
	}
}

func shSpec(t *testing.T, script string) LaunchSpec {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake server children need /bin/sh")
	}
	return LaunchSpec{
		Command: "/bin/sh",
		Args:    []string{"-c", script},
		Dir:     t.TempDir(),
	}
}

func TestStartBecomesRunningOnReadyMarker(t *testing.T) {
	sup := NewSupervisor(testOptions())
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, obedientScript)))

	require.NoError(t, sup.Start(context.Background()))
	assert.Equal(t, models.StateRunning, sup.State())

	require.NoError(t, sup.Stop(context.Background()))
	assert.Equal(t, models.StateStopped, sup.State())
}

func TestStartFailsWhenAlreadyRunning(t *testing.T) {
	sup := NewSupervisor(testOptions())
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, obedientScript)))
	require.NoError(t, sup.Start(context.Background()))
	defer sup.Stop(context.Background())

	assert.ErrorIs(t, sup.Start(context.Background()), ErrAlreadyRunning)
}

func TestStartFailsOnMissingArtifact(t *testing.T) {
	sup := NewSupervisor(testOptions())
	spec := shSpec(t, obedientScript)
	spec.ArtifactPath = spec.Dir + "/server.jar"
	require.NoError(t, sup.SetLaunchSpec(spec))

	assert.ErrorIs(t, sup.Start(context.Background()), ErrMissingArtifact)
	assert.Equal(t, models.StateStopped, sup.State())
}

func TestStartFailsFastWhenPortTaken(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	sup := NewSupervisor(testOptions())
	spec := shSpec(t, obedientScript)
	spec.Port = port
	require.NoError(t, sup.SetLaunchSpec(spec))

	assert.ErrorIs(t, sup.Start(context.Background()), ErrBindFailure)
	assert.Equal(t, models.StateStopped, sup.State())
	// the child was never spawned, so nothing reached the console buffer
	assert.Empty(t, sup.Logs(0))
}

func TestStartDetectsBindFailure(t *testing.T) {
	sup := NewSupervisor(testOptions())
	script := `echo '[00:00:00] [Server thread/WARN]: **** FAILED TO BIND TO PORT!'
sleep 60`
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, script)))

	assert.ErrorIs(t, sup.Start(context.Background()), ErrBindFailure)
	assert.Equal(t, models.StateStopped, sup.State())
}

func TestStartDetectsEarlyExit(t *testing.T) {
	sup := NewSupervisor(testOptions())
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, "exit 1")))

	assert.ErrorIs(t, sup.Start(context.Background()), ErrServerExited)
	assert.Equal(t, models.StateStopped, sup.State())
}

func TestStartTimesOutAndLeavesProcessAlive(t *testing.T) {
	opts := testOptions()
	opts.StartTimeout = 300 * time.Millisecond
	sup := NewSupervisor(opts)
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, "sleep 60")))

	assert.ErrorIs(t, sup.Start(context.Background()), ErrStartTimeout)
	assert.Equal(t, models.StateStarting, sup.State())
	assert.True(t, sup.Resources().Running)

	require.NoError(t, sup.Stop(context.Background()))
	assert.Equal(t, models.StateStopped, sup.State())
}

func TestStopEscalatesOnStubbornServer(t *testing.T) {
	sup := NewSupervisor(testOptions())
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, stubbornScript)))
	require.NoError(t, sup.Start(context.Background()))

	start := time.Now()
	require.NoError(t, sup.Stop(context.Background()))
	assert.Equal(t, models.StateStopped, sup.State())
	// must have waited out the stop timeout before terminating
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)

	// the log reader must be gone with the process, not spinning on the
	// closed pipe and flooding the buffer
	time.Sleep(250 * time.Millisecond)
	assert.False(t, containsLine(sup.Logs(0), "console read error"))
}

type closedPipeReader struct{}

func (closedPipeReader) Read([]byte) (int, error) { return 0, os.ErrClosed }

func TestLogReaderEndsWhenPipeCloses(t *testing.T) {
	sup := NewSupervisor(testOptions())
	done := make(chan struct{})
	go sup.readLogs(closedPipeReader{}, make(chan struct{}, 1), make(chan struct{}, 1), done)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("log reader kept running after the pipe closed")
	}
	assert.False(t, containsLine(sup.Logs(0), "console read error"))
}

func TestStopWhenStoppedIsNoOp(t *testing.T) {
	sup := NewSupervisor(testOptions())
	require.NoError(t, sup.Stop(context.Background()))
	assert.Equal(t, models.StateStopped, sup.State())
}

func TestRestart(t *testing.T) {
	sup := NewSupervisor(testOptions())
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, obedientScript)))
	require.NoError(t, sup.Start(context.Background()))

	require.NoError(t, sup.Restart(context.Background()))
	assert.Equal(t, models.StateRunning, sup.State())
	require.NoError(t, sup.Stop(context.Background()))
}

func TestSendCommandRequiresRunningServer(t *testing.T) {
	sup := NewSupervisor(testOptions())
	assert.ErrorIs(t, sup.SendCommand("say hi"), ErrNotRunning)
}

func TestSendCommandReachesServerStdin(t *testing.T) {
	sup := NewSupervisor(testOptions())
	// server echoes every console command back to its log
	script := readyLine + `
while read line; do
  echo "got: $line"
  if [ "$line" = "stop" ]; then exit 0; fi
done`
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, script)))
	require.NoError(t, sup.Start(context.Background()))
	defer sup.Stop(context.Background())

	require.NoError(t, sup.SendCommand("say hello"))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if containsLine(sup.Logs(0), "got: say hello") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("command never showed up in the console log: %v", sup.Logs(0))
}

func TestLogLinesGetTimestampPrefix(t *testing.T) {
	sup := NewSupervisor(testOptions())
	script := `echo 'no timestamp here'
` + obedientScript
	require.NoError(t, sup.SetLaunchSpec(shSpec(t, script)))
	require.NoError(t, sup.Start(context.Background()))
	defer sup.Stop(context.Background())

	lines := sup.Logs(0)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}]`, line)
	}
	// the already-timestamped ready line must not be stamped twice
	assert.True(t, containsLine(lines, "Done (1.2s)!"))
	for _, line := range lines {
		if strings.Contains(line, "Done (1.2s)!") {
			assert.True(t, strings.HasPrefix(line, "[00:00:00]"))
		}
	}
}

func TestResourcesZeroWhenStopped(t *testing.T) {
	sup := NewSupervisor(testOptions())
	snapshot := sup.Resources()
	assert.False(t, snapshot.Running)
	assert.Zero(t, snapshot.Pid)
}

func TestResourcesZeroWhenProcessVanishes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	// a finished child leaves a pid that is no longer queryable
	cmd := exec.Command("/bin/sh", "-c", "exit 0")
	require.NoError(t, cmd.Run())

	sup := NewSupervisor(testOptions())
	sup.mutex.Lock()
	sup.cmd = cmd
	sup.state = models.StateRunning
	sup.startedAt = time.Now()
	sup.mutex.Unlock()

	snapshot := sup.Resources()
	assert.False(t, snapshot.Running)
	assert.Zero(t, snapshot.Pid)
}

func containsLine(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
