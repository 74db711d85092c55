// Package docker provides Docker container lifecycle management for the
// database backends using the Docker CLI.
package docker

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Kind selects the database a container runs.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindNeo4j    Kind = "neo4j"
)

// Default images per kind.
const (
	DefaultPostgresImage = "postgres:16-alpine"
	DefaultNeo4jImage    = "neo4j:5.25-community"
)

// ContainerConfig holds the configuration for a database container.
type ContainerConfig struct {
	Kind     Kind
	Name     string
	Image    string
	Username string
	Password string
	// Database is created on first start (postgres only).
	Database string
}

// Validate checks that all required fields are set.
func (c *ContainerConfig) Validate() error {
	var missing []string

	if c.Name == "" {
		missing = append(missing, "Name")
	}
	if c.Image == "" {
		missing = append(missing, "Image")
	}
	if c.Username == "" {
		missing = append(missing, "Username")
	}
	if c.Password == "" {
		missing = append(missing, "Password")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	switch c.Kind {
	case KindPostgres, KindNeo4j:
		return nil
	default:
		return fmt.Errorf("unsupported container kind %q", c.Kind)
	}
}

// runArgs builds the docker run arguments for the container.
func (c *ContainerConfig) runArgs() []string {
	args := []string{"run", "-d", "--name", c.Name}
	switch c.Kind {
	case KindPostgres:
		args = append(args,
			"-p", "5432:5432",
			"-e", "POSTGRES_USER="+c.Username,
			"-e", "POSTGRES_PASSWORD="+c.Password,
		)
		if c.Database != "" {
			args = append(args, "-e", "POSTGRES_DB="+c.Database)
		}
	case KindNeo4j:
		args = append(args,
			"-p", "7687:7687",
			"-p", "7474:7474",
			"-e", fmt.Sprintf("NEO4J_AUTH=%s/%s", c.Username, c.Password),
		)
	}
	return append(args, c.Image)
}

// readyMarker is the log line each database prints once it accepts
// connections.
func (k Kind) readyMarker() string {
	if k == KindPostgres {
		return "database system is ready to accept connections"
	}
	return "Started."
}

// IsDockerAvailable checks if Docker is installed and accessible.
func IsDockerAvailable() bool {
	cmd := exec.Command("docker", "version")
	return cmd.Run() == nil
}

// ContainerExists checks if a container with the given name exists.
func ContainerExists(name string) (bool, error) {
	cmd := exec.Command("docker", "ps", "-a", "--filter", fmt.Sprintf("name=^%s$", name), "--format", "{{.Names}}")
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("failed to check container existence: %w", err)
	}

	return strings.TrimSpace(string(output)) == name, nil
}

// IsContainerRunning checks if a container is currently running.
func IsContainerRunning(name string) (bool, error) {
	cmd := exec.Command("docker", "ps", "--filter", fmt.Sprintf("name=^%s$", name), "--format", "{{.Names}}")
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("failed to check container status: %w", err)
	}

	return strings.TrimSpace(string(output)) == name, nil
}

// CreateContainer creates a new database container with the specified configuration.
func CreateContainer(config *ContainerConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid container config: %w", err)
	}
	return run(config.runArgs()...)
}

// StartContainer starts an existing container.
func StartContainer(name string) error {
	return run("start", name)
}

// StopContainer stops a running container.
func StopContainer(name string) error {
	return run("stop", name)
}

// RemoveContainer removes a container (must be stopped first).
func RemoveContainer(name string) error {
	return run("rm", name)
}

func run(args ...string) error {
	cmd := exec.Command("docker", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to %s container: %w (stderr: %s)", args[0], err, stderr.String())
	}
	return nil
}

// EnsureContainer ensures that a database container is running.
// If the container doesn't exist, it creates it.
// If the container exists but is stopped, it starts it.
// Returns true if the container was created, false if it already existed.
func EnsureContainer(config *ContainerConfig) (created bool, err error) {
	if !IsDockerAvailable() {
		return false, fmt.Errorf("docker is not available, install Docker and ensure it is running")
	}

	if err := config.Validate(); err != nil {
		return false, fmt.Errorf("invalid container config: %w", err)
	}

	exists, err := ContainerExists(config.Name)
	if err != nil {
		return false, err
	}

	if !exists {
		if err := CreateContainer(config); err != nil {
			return false, err
		}
		time.Sleep(2 * time.Second)
		return true, nil
	}

	running, err := IsContainerRunning(config.Name)
	if err != nil {
		return false, err
	}

	if !running {
		if err := StartContainer(config.Name); err != nil {
			return false, err
		}
		time.Sleep(2 * time.Second)
	}

	return false, nil
}

// WaitForContainer waits until the container logs the database's ready
// message.
func WaitForContainer(name string, kind Kind, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		running, err := IsContainerRunning(name)
		if err != nil {
			return err
		}
		if !running {
			return fmt.Errorf("container %s is not running", name)
		}

		// postgres logs to stderr
		cmd := exec.Command("docker", "logs", name)
		output, err := cmd.CombinedOutput()
		if err == nil && strings.Contains(string(output), kind.readyMarker()) {
			return nil
		}

		time.Sleep(1 * time.Second)
	}

	return fmt.Errorf("timeout waiting for container %s to be ready", name)
}
