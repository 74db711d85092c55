package docker

import (
	"slices"
	"testing"
	"time"
)

func TestDockerAvailable(t *testing.T) {
	if !IsDockerAvailable() {
		t.Skip("Docker is not available on this system")
	}
}

func TestContainerExists(t *testing.T) {
	if !IsDockerAvailable() {
		t.Skip("Docker not available")
	}

	exists, err := ContainerExists("this-container-should-not-exist-12345")
	if err != nil {
		t.Fatalf("ContainerExists() error = %v", err)
	}
	if exists {
		t.Error("ContainerExists() = true for a container that does not exist")
	}
}

func TestContainerRunning(t *testing.T) {
	if !IsDockerAvailable() {
		t.Skip("Docker not available")
	}

	running, err := IsContainerRunning("this-container-should-not-exist-12345")
	if err != nil {
		t.Fatalf("IsContainerRunning() error = %v", err)
	}
	if running {
		t.Error("IsContainerRunning() should return false for non-existent container")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *ContainerConfig
		wantErr bool
	}{
		{
			name: "valid postgres",
			config: &ContainerConfig{
				Kind: KindPostgres, Name: "taskflow-db", Image: DefaultPostgresImage,
				Username: "taskflow", Password: "secret", Database: "taskflow",
			},
		},
		{
			name: "valid neo4j",
			config: &ContainerConfig{
				Kind: KindNeo4j, Name: "taskflow-graph", Image: DefaultNeo4jImage,
				Username: "neo4j", Password: "secret",
			},
		},
		{
			name: "missing name",
			config: &ContainerConfig{
				Kind: KindNeo4j, Image: DefaultNeo4jImage, Username: "neo4j", Password: "secret",
			},
			wantErr: true,
		},
		{
			name: "missing password",
			config: &ContainerConfig{
				Kind: KindPostgres, Name: "taskflow-db", Image: DefaultPostgresImage, Username: "taskflow",
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			config: &ContainerConfig{
				Kind: "redis", Name: "cache", Image: "redis:7", Username: "u", Password: "p",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunArgs(t *testing.T) {
	pg := &ContainerConfig{
		Kind: KindPostgres, Name: "taskflow-db", Image: DefaultPostgresImage,
		Username: "taskflow", Password: "secret", Database: "taskflow",
	}
	args := pg.runArgs()
	for _, want := range []string{"5432:5432", "POSTGRES_USER=taskflow", "POSTGRES_PASSWORD=secret", "POSTGRES_DB=taskflow"} {
		if !slices.Contains(args, want) {
			t.Errorf("postgres args %v missing %s", args, want)
		}
	}
	if args[len(args)-1] != DefaultPostgresImage {
		t.Errorf("image must be the last argument, got %v", args)
	}

	neo := &ContainerConfig{
		Kind: KindNeo4j, Name: "taskflow-graph", Image: DefaultNeo4jImage,
		Username: "neo4j", Password: "secret",
	}
	args = neo.runArgs()
	if !slices.Contains(args, "NEO4J_AUTH=neo4j/secret") || !slices.Contains(args, "7687:7687") {
		t.Errorf("neo4j args %v missing auth or bolt port", args)
	}
}

func TestEnsureContainer(t *testing.T) {
	if !IsDockerAvailable() {
		t.Skip("Docker not available")
	}

	config := &ContainerConfig{
		Kind:     KindPostgres,
		Name:     "test-taskflow-postgres",
		Image:    DefaultPostgresImage,
		Username: "taskflow",
		Password: "testpassword",
		Database: "taskflow",
	}

	defer func() {
		StopContainer(config.Name)
		RemoveContainer(config.Name)
	}()

	created, err := EnsureContainer(config)
	if err != nil {
		t.Fatalf("EnsureContainer() error = %v", err)
	}
	if !created {
		t.Error("EnsureContainer() should return true when creating a new container")
	}

	if err := WaitForContainer(config.Name, config.Kind, 60*time.Second); err != nil {
		t.Fatalf("WaitForContainer() error = %v", err)
	}

	created, err = EnsureContainer(config)
	if err != nil {
		t.Fatalf("EnsureContainer() error on second call = %v", err)
	}
	if created {
		t.Error("EnsureContainer() should return false when container already exists")
	}

	if err := StopContainer(config.Name); err != nil {
		t.Fatalf("Failed to stop container: %v", err)
	}

	created, err = EnsureContainer(config)
	if err != nil {
		t.Fatalf("EnsureContainer() error on third call = %v", err)
	}
	if created {
		t.Error("EnsureContainer() should return false when starting existing container")
	}

	running, err := IsContainerRunning(config.Name)
	if err != nil {
		t.Fatalf("Failed to check if container is running: %v", err)
	}
	if !running {
		t.Error("Container should be running after EnsureContainer()")
	}
}
