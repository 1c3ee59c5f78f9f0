package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"mckeeper/internal/config"
	"mckeeper/internal/logger"
	"mckeeper/internal/models"
	"mckeeper/internal/utils"
)

/**
 * TunnelAgent records one running tunnel agent process
 * @property {string} Service - Tunnel service name (ngrok/playit/zrok)
 * @property {int} Pid - Agent process ID
 * @property {int} Port - Local port being exposed
 * @property {time.Time} StartedAt - Agent start time
 */
type TunnelAgent struct {
	Service   string    `json:"service"`
	Pid       int       `json:"pid"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"started_at"`

	cmd *exec.Cmd
}

// default agent command templates, overridable through the tunnel
// section of the configuration file
var defaultTunnelCommands = map[string]struct {
	command string
	args    []string
}{
	"ngrok":  {"ngrok", []string{"tcp", "{{.port}}"}},
	"playit": {"playit", nil},
	"zrok":   {"zrok", []string{"share", "public", "localhost:{{.port}}"}},
}

/**
 * TunnelManager starts and tracks tunnel agent processes
 * @description
 * - Agent console output is fed to the shared tunnel scraper, so the
 *   public URL shows up in status output the same way it does when the
 *   agent logs through the server console
 * - Agent state is cached to disk so a restarted daemon can report and
 *   stop agents it did not spawn itself
 */
type TunnelManager struct {
	mutex  sync.Mutex
	agents map[string]*TunnelAgent
}

var (
	tunnelInstance *TunnelManager
	tunnelOnce     sync.Once
)

// GetTunnelManager returns the process-wide tunnel manager instance.
func GetTunnelManager() *TunnelManager {
	tunnelOnce.Do(func() {
		tunnelInstance = &TunnelManager{
			agents: make(map[string]*TunnelAgent),
		}
		tunnelInstance.loadState()
	})
	return tunnelInstance
}

/**
 * Start a tunnel agent exposing the given local port
 * @param {string} service - Tunnel service name, empty uses the configured default
 * @param {int} port - Local port to expose
 * @description
 * - The command template from configuration wins over the built-in
 *   defaults; {{.port}} and {{.authtoken}} are substituted
 */
func (m *TunnelManager) StartTunnel(service string, port int) error {
	if service == "" {
		service = config.Config.Tunnel.Service
	}
	if service == "" {
		service = "ngrok"
	}
	service = strings.ToLower(service)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if agent, ok := m.agents[service]; ok && utils.IsProcessAlive(agent.Pid) {
		return fmt.Errorf("tunnel agent %s is already running (pid %d)", service, agent.Pid)
	}

	command, args, err := m.commandFor(service, port)
	if err != nil {
		return err
	}

	cmd := exec.Command(command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open agent stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s agent: %w", service, err)
	}

	agent := &TunnelAgent{
		Service:   service,
		Pid:       cmd.Process.Pid,
		Port:      port,
		StartedAt: time.Now(),
		cmd:       cmd,
	}
	m.agents[service] = agent
	m.saveState()
	metricTunnels.WithLabelValues(service).Set(1)
	logger.Infof("started %s tunnel agent (%s), pid %d",
		service, utils.Path2ProcessName(command), agent.Pid)

	go m.readAgentOutput(service, stdout)
	go func() {
		cmd.Wait()
		m.mutex.Lock()
		if current, ok := m.agents[service]; ok && current == agent {
			delete(m.agents, service)
			m.saveState()
		}
		m.mutex.Unlock()
		metricTunnels.WithLabelValues(service).Set(0)
		logger.Infof("%s tunnel agent exited", service)
	}()
	return nil
}

// commandFor expands the agent command line for a service.
func (m *TunnelManager) commandFor(service string, port int) (string, []string, error) {
	data := map[string]string{
		"port":      strconv.Itoa(port),
		"authtoken": config.Config.Tunnel.Authtoken,
	}

	if tpl := config.Config.Tunnel.Command; tpl != "" && service == strings.ToLower(config.Config.Tunnel.Service) {
		fields := strings.Fields(tpl)
		return utils.GetCommandLine(fields[0], fields[1:], data)
	}

	def, ok := defaultTunnelCommands[service]
	if !ok {
		return "", nil, fmt.Errorf("unknown tunnel service: %s", service)
	}
	return utils.GetCommandLine(def.command, def.args, data)
}

// readAgentOutput drains agent output into the supervisor's scraper so
// the public endpoint appears in status responses.
func (m *TunnelManager) readAgentOutput(service string, stream io.Reader) {
	scraper := GetSupervisor().scraper
	reader := bufio.NewReader(stream)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			text := strings.TrimRight(line, "\r\n")
			// prefix with the service so keyword matching always hits
			scraper.Scan(service + ": " + text)
			logger.Debugf("[%s] %s", service, text)
		}
		if err != nil {
			return
		}
	}
}

/**
 * Stop a running tunnel agent
 * @param {string} service - Tunnel service name
 */
func (m *TunnelManager) StopTunnel(service string) error {
	service = strings.ToLower(service)

	m.mutex.Lock()
	agent, ok := m.agents[service]
	if ok {
		delete(m.agents, service)
		m.saveState()
	}
	m.mutex.Unlock()

	if !ok {
		return fmt.Errorf("tunnel agent %s is not running", service)
	}

	if agent.cmd != nil && agent.cmd.Process != nil {
		terminateProcess(agent.cmd.Process)
	} else if utils.IsProcessAlive(agent.Pid) {
		// agent inherited from a previous daemon run
		if process, err := os.FindProcess(agent.Pid); err == nil {
			terminateProcess(process)
		}
	}
	metricTunnels.WithLabelValues(service).Set(0)
	logger.Infof("stopped %s tunnel agent", service)
	return nil
}

// List returns the running tunnel agents, sorted by service name.
func (m *TunnelManager) List() []TunnelAgent {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	out := make([]TunnelAgent, 0, len(m.agents))
	for _, agent := range m.agents {
		out = append(out, *agent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Service < out[j].Service })
	return out
}

// Endpoints returns tunnel endpoints scraped from server and agent output.
func (m *TunnelManager) Endpoints() []models.TunnelEndpoints {
	return GetSupervisor().Tunnels()
}

func stateFilePath() string {
	return filepath.Join(config.DataDir(), "tunnels.json")
}

// saveState persists the agent table. Callers hold the mutex.
func (m *TunnelManager) saveState() {
	agents := make([]*TunnelAgent, 0, len(m.agents))
	for _, agent := range m.agents {
		agents = append(agents, agent)
	}
	data, err := json.MarshalIndent(agents, "", "  ")
	if err != nil {
		logger.Warnf("failed to marshal tunnel state: %v", err)
		return
	}
	path := stateFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warnf("failed to create state directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Warnf("failed to write tunnel state: %v", err)
	}
}

// loadState restores agents from the cache, dropping dead PIDs.
func (m *TunnelManager) loadState() {
	data, err := os.ReadFile(stateFilePath())
	if err != nil {
		return
	}
	var agents []*TunnelAgent
	if err := json.Unmarshal(data, &agents); err != nil {
		logger.Warnf("failed to parse tunnel state: %v", err)
		return
	}
	for _, agent := range agents {
		if utils.IsProcessAlive(agent.Pid) {
			m.agents[agent.Service] = agent
			metricTunnels.WithLabelValues(agent.Service).Set(1)
		}
	}
}
