package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"mckeeper/internal/logger"
	"mckeeper/internal/models"
	"mckeeper/internal/utils"
)

var (
	ErrAlreadyRunning  = errors.New("server is already running")
	ErrNotRunning      = errors.New("server is not running")
	ErrMissingArtifact = errors.New("server artifact is missing, run setup first")
	ErrBindFailure     = errors.New("server failed to bind to its port")
	ErrStartTimeout    = errors.New("server did not become ready in time")
	ErrServerExited    = errors.New("server process exited during startup")
)

// readiness and failure markers emitted by the vanilla server and every
// derivative distribution
const (
	readyMarkerA    = "Done"
	readyMarkerB    = "For help, type"
	bindFailMarker  = "FAILED TO BIND TO PORT"
	timestampLayout = "15:04:05"
)

var timestampedRe = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}]`)

/**
 * LaunchSpec describes how to start the server process
 * @property {string} Command - Executable to run (the java binary)
 * @property {[]string} Args - Arguments for the executable
 * @property {string} Dir - Working directory of the process
 * @property {string} ArtifactPath - Server jar or args file checked before launch, empty to skip the check
 * @property {int} Port - Game port checked for availability before launch, zero to skip the check
 */
type LaunchSpec struct {
	Command      string
	Args         []string
	Dir          string
	ArtifactPath string
	Port         int
}

/**
 * SupervisorOptions tune the supervisor timings
 * @property {time.Duration} StartTimeout - How long to wait for the ready marker
 * @property {time.Duration} StopTimeout - How long "stop" may take before escalating
 * @property {time.Duration} KillGrace - Delay between terminate and kill
 * @property {time.Duration} RestartDelay - Settle time between stop and start on restart
 * @property {int} BufferSize - Console lines to retain
 */
type SupervisorOptions struct {
	StartTimeout time.Duration
	StopTimeout  time.Duration
	KillGrace    time.Duration
	RestartDelay time.Duration
	BufferSize   int
}

func defaultOptions() SupervisorOptions {
	return SupervisorOptions{
		StartTimeout: 60 * time.Second,
		StopTimeout:  30 * time.Second,
		KillGrace:    5 * time.Second,
		RestartDelay: 2 * time.Second,
		BufferSize:   DefaultLogCapacity,
	}
}

/**
 * Supervisor owns the lifecycle of one Minecraft server process
 * @description
 * - State machine: Stopped -> Starting -> Running -> Stopping -> Stopped
 * - A background reader drains the merged stdout/stderr stream into the
 *   log buffer, feeds the tunnel scraper, and signals readiness or
 *   bind failure to a pending Start
 * - All public methods are safe for concurrent use
 */
type Supervisor struct {
	mutex sync.Mutex

	state     models.RunState
	spec      LaunchSpec
	opts      SupervisorOptions
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	startedAt time.Time

	buffer  *LogBuffer
	scraper *TunnelScraper

	// closed by the exit watcher when the current process terminates
	exited  chan struct{}
	readyCh chan struct{}
	bindCh  chan struct{}

	restarts int
}

var (
	supervisorInstance *Supervisor
	supervisorOnce     sync.Once
)

// GetSupervisor returns the process-wide supervisor instance.
func GetSupervisor() *Supervisor {
	supervisorOnce.Do(func() {
		supervisorInstance = NewSupervisor(defaultOptions())
	})
	return supervisorInstance
}

func NewSupervisor(opts SupervisorOptions) *Supervisor {
	def := defaultOptions()
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = def.StartTimeout
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = def.StopTimeout
	}
	if opts.KillGrace <= 0 {
		opts.KillGrace = def.KillGrace
	}
	if opts.RestartDelay <= 0 {
		opts.RestartDelay = def.RestartDelay
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = def.BufferSize
	}
	return &Supervisor{
		state:   models.StateStopped,
		opts:    opts,
		buffer:  NewLogBuffer(opts.BufferSize),
		scraper: NewTunnelScraper(),
	}
}

// SetLaunchSpec replaces the launch specification. Only allowed while
// the server is stopped.
func (s *Supervisor) SetLaunchSpec(spec LaunchSpec) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state != models.StateStopped {
		return ErrAlreadyRunning
	}
	s.spec = spec
	return nil
}

/**
 * Start the server process and wait for readiness
 * @returns {error} nil once the server reports ready
 * @description
 * - Returns ErrAlreadyRunning unless the supervisor is Stopped
 * - Returns ErrMissingArtifact when the configured artifact is absent
 * - Returns ErrBindFailure before spawning when the game port is taken,
 *   or after spawning (reaping the process) when the server reports it
 *   cannot bind
 * - Returns ErrServerExited when the process dies before readiness
 * - Returns ErrStartTimeout when no marker appears in time; the
 *   process is left running and the state stays Starting
 * - Context cancellation behaves like a timeout: the wait is abandoned
 *   but the process keeps running
 */
func (s *Supervisor) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.state != models.StateStopped {
		s.mutex.Unlock()
		return ErrAlreadyRunning
	}
	spec := s.spec
	if spec.Command == "" {
		s.mutex.Unlock()
		return fmt.Errorf("no launch specification configured")
	}
	if spec.ArtifactPath != "" {
		if _, err := os.Stat(spec.ArtifactPath); err != nil {
			s.mutex.Unlock()
			return fmt.Errorf("%w: %s", ErrMissingArtifact, spec.ArtifactPath)
		}
	}
	// fail fast when something else already holds the game port instead
	// of waiting for the child to print the bind-failure marker
	if spec.Port > 0 && !utils.CheckPortAvailable(spec.Port) {
		s.mutex.Unlock()
		return fmt.Errorf("%w: port %d is in use", ErrBindFailure, spec.Port)
	}

	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = spec.Dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.mutex.Unlock()
		return fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.mutex.Unlock()
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	// merge stderr into the same stream so crash traces land in the buffer
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		s.mutex.Unlock()
		return fmt.Errorf("failed to start server process: %w", err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.state = models.StateStarting
	s.startedAt = time.Now()
	s.buffer.Clear()
	s.scraper.Reset()
	s.exited = make(chan struct{})
	s.readyCh = make(chan struct{}, 1)
	s.bindCh = make(chan struct{}, 1)
	exited, readyCh, bindCh := s.exited, s.readyCh, s.bindCh
	readerDone := make(chan struct{})
	metricState.Set(float64(stateOrdinal(models.StateStarting)))
	s.mutex.Unlock()

	logger.Infof("server process started, pid %d", cmd.Process.Pid)

	go s.readLogs(stdout, readyCh, bindCh, readerDone)
	go s.watchExit(cmd, exited, readerDone)

	select {
	case <-readyCh:
		s.setState(models.StateRunning)
		logger.Info("server is ready")
		return nil
	case <-bindCh:
		logger.Error("server failed to bind, terminating")
		s.reap(cmd, exited)
		s.setState(models.StateStopped)
		return ErrBindFailure
	case <-exited:
		s.setState(models.StateStopped)
		return ErrServerExited
	case <-time.After(s.opts.StartTimeout):
		// leave the process alone, it may still come up
		return ErrStartTimeout
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrStartTimeout, ctx.Err())
	}
}

/**
 * Read the merged console stream until the process exits
 * @description
 * - Lines without a [HH:MM:SS] prefix get one stamped on, so the
 *   buffer is uniform for display
 * - Readiness requires both markers on the same line; bind failure is
 *   matched case-insensitively
 * - EOF or a closed pipe means the child is gone and ends the reader;
 *   other read errors back off and retry
 */
func (s *Supervisor) readLogs(stream io.Reader, readyCh, bindCh chan struct{}, done chan struct{}) {
	defer close(done)
	reader := bufio.NewReader(stream)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			text := strings.TrimRight(line, "\r\n")
			if !timestampedRe.MatchString(text) {
				text = "[" + time.Now().Format(timestampLayout) + "] " + text
			}
			s.buffer.Append(text)
			s.scraper.Scan(text)
			metricLogLines.Inc()

			if strings.Contains(text, readyMarkerA) && strings.Contains(text, readyMarkerB) {
				select {
				case readyCh <- struct{}{}:
				default:
				}
			}
			if strings.Contains(strings.ToUpper(text), bindFailMarker) {
				select {
				case bindCh <- struct{}{}:
				default:
				}
			}
		}
		if err != nil {
			if err == io.EOF || errors.Is(err, os.ErrClosed) {
				return
			}
			logger.Warnf("console read error: %v", err)
			s.buffer.Append("[" + time.Now().Format(timestampLayout) + "] console read error: " + err.Error())
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// watchExit reaps the child and flips the state to Stopped unless a
// Stop is already handling the shutdown. It waits for the log reader
// to drain the pipe first, since Wait closes it under a pending read.
func (s *Supervisor) watchExit(cmd *exec.Cmd, exited, readerDone chan struct{}) {
	<-readerDone
	err := cmd.Wait()
	close(exited)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.cmd != cmd {
		return
	}
	if s.state != models.StateStopping {
		if err != nil {
			logger.Warnf("server process exited: %v", err)
		} else {
			logger.Info("server process exited")
		}
		s.state = models.StateStopped
		metricState.Set(float64(stateOrdinal(models.StateStopped)))
	}
	s.cmd = nil
	s.stdin = nil
}

/**
 * Stop the server, escalating from "stop" to terminate to kill
 * @returns {error} nil when the server is down; stopping a stopped server is a no-op
 * @description
 * - Sends the "stop" console command and waits StopTimeout for a clean
 *   exit, then terminates, waits KillGrace, and finally kills
 * - Context cancellation skips the polite wait and escalates right away
 */
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mutex.Lock()
	if s.state == models.StateStopped || s.cmd == nil {
		s.state = models.StateStopped
		s.mutex.Unlock()
		return nil
	}
	s.state = models.StateStopping
	metricState.Set(float64(stateOrdinal(models.StateStopping)))
	cmd := s.cmd
	stdin := s.stdin
	exited := s.exited
	s.mutex.Unlock()

	if stdin != nil {
		if _, err := io.WriteString(stdin, "stop\n"); err != nil {
			logger.Debugf("failed to send stop command: %v", err)
		}
	}

	select {
	case <-exited:
		logger.Info("server stopped cleanly")
	case <-time.After(s.opts.StopTimeout):
		logger.Warn("server ignored stop command, terminating")
		s.reap(cmd, exited)
	case <-ctx.Done():
		logger.Warnf("stop wait abandoned: %v, terminating", ctx.Err())
		s.reap(cmd, exited)
	}

	s.mutex.Lock()
	s.state = models.StateStopped
	s.cmd = nil
	s.stdin = nil
	metricState.Set(float64(stateOrdinal(models.StateStopped)))
	s.mutex.Unlock()
	return nil
}

// reap terminates the process, waiting KillGrace before killing outright.
func (s *Supervisor) reap(cmd *exec.Cmd, exited chan struct{}) {
	if cmd.Process == nil {
		return
	}
	terminateProcess(cmd.Process)
	select {
	case <-exited:
		return
	case <-time.After(s.opts.KillGrace):
	}
	if err := cmd.Process.Kill(); err != nil {
		logger.Debugf("kill: %v", err)
	}
	<-exited
}

/**
 * Restart the server
 * @description
 * - Stops if needed, waits RestartDelay for the port to free up, then
 *   starts again with the current launch specification
 */
func (s *Supervisor) Restart(ctx context.Context) error {
	if err := s.Stop(ctx); err != nil {
		return err
	}
	time.Sleep(s.opts.RestartDelay)
	s.mutex.Lock()
	s.restarts++
	s.mutex.Unlock()
	metricRestarts.Inc()
	return s.Start(ctx)
}

/**
 * Send a console command to the running server
 * @param {string} command - Command without trailing newline
 * @returns {error} ErrNotRunning unless the server is Running
 */
func (s *Supervisor) SendCommand(command string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != models.StateRunning || s.stdin == nil {
		return ErrNotRunning
	}
	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// State returns the current lifecycle state.
func (s *Supervisor) State() models.RunState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Logs returns the newest n buffered console lines, oldest first.
// n <= 0 returns the whole buffer.
func (s *Supervisor) Logs(n int) []string {
	return s.buffer.Tail(n)
}

// Tunnels returns the tunnel endpoints scraped from console output.
func (s *Supervisor) Tunnels() []models.TunnelEndpoints {
	return s.scraper.Endpoints()
}

/**
 * Sample resource usage of the server process
 * @returns {models.ResourceSnapshot} Zero-valued snapshot when not running
 */
func (s *Supervisor) Resources() models.ResourceSnapshot {
	s.mutex.Lock()
	cmd := s.cmd
	startedAt := s.startedAt
	state := s.state
	s.mutex.Unlock()

	if cmd == nil || cmd.Process == nil ||
		(state != models.StateRunning && state != models.StateStarting && state != models.StateStopping) {
		return models.ResourceSnapshot{}
	}

	pid := cmd.Process.Pid
	snapshot := models.ResourceSnapshot{
		Running:       true,
		Pid:           pid,
		UptimeSeconds: time.Since(startedAt).Seconds(),
	}
	cpu, mem, memPct, err := utils.ProcessStats(pid)
	if err != nil {
		if !utils.IsProcessAlive(pid) {
			// the process is gone but the exit watcher has not caught up
			logger.Debugf("pid %d no longer queryable, reporting stopped", pid)
			return models.ResourceSnapshot{}
		}
		logger.Debugf("resource sample failed: %v", err)
		return snapshot
	}
	snapshot.CPUPercent = cpu
	snapshot.MemoryBytes = mem
	snapshot.MemoryPercent = memPct
	metricCPU.Set(cpu)
	metricMemory.Set(float64(mem))
	return snapshot
}

func (s *Supervisor) setState(state models.RunState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	// the exit watcher may have raced us to Stopped
	if state == models.StateRunning && s.cmd == nil {
		return
	}
	s.state = state
	metricState.Set(float64(stateOrdinal(state)))
}

func stateOrdinal(state models.RunState) int {
	switch state {
	case models.StateStopped:
		return 0
	case models.StateStarting:
		return 1
	case models.StateRunning:
		return 2
	case models.StateStopping:
		return 3
	}
	return 0
}
