package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitz/taskflow/internal/config"
	"github.com/fitz/taskflow/internal/docker"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the storage backend",
}

var storeUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start a Docker container for the configured database",
	Long: `Create or start a local Docker container for the postgres or neo4j
store, using the credentials from the configuration. The sqlite and memory
stores need no container.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		containerCfg, err := containerConfig(cfg)
		if err != nil {
			exitWithError(err)
		}
		if containerCfg == nil {
			fmt.Printf("The %s store needs no container\n", cfg.Store)
			return
		}

		created, err := docker.EnsureContainer(containerCfg)
		if err != nil {
			exitWithError(fmt.Errorf("failed to ensure %s container: %w", containerCfg.Kind, err))
		}
		if !created {
			fmt.Fprintf(os.Stderr, "✓ Container '%s' is running\n", containerCfg.Name)
			return
		}

		fmt.Fprintf(os.Stderr, "✓ Created %s container '%s'\n", containerCfg.Kind, containerCfg.Name)
		fmt.Fprintf(os.Stderr, "  Waiting for the database to be ready...\n")
		if err := docker.WaitForContainer(containerCfg.Name, containerCfg.Kind, 30*time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "  ✓ Ready\n")
		}
	},
}

var storeDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the database container",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := docker.StopContainer(cfg.ContainerName); err != nil {
			exitWithError(err)
		}
		fmt.Printf("✓ Stopped '%s'\n", cfg.ContainerName)
	},
}

// containerConfig derives the container from the store settings. It
// returns nil for stores that run in-process.
func containerConfig(c *config.Config) (*docker.ContainerConfig, error) {
	switch c.Store {
	case config.StorePostgres:
		u, err := url.Parse(c.PostgresDSN)
		if err != nil || u.User == nil {
			return nil, fmt.Errorf("TASKFLOW_POSTGRES_DSN must be a postgres:// URL with user and password")
		}
		password, _ := u.User.Password()
		return &docker.ContainerConfig{
			Kind:     docker.KindPostgres,
			Name:     c.ContainerName,
			Image:    imageOr(c.ContainerImage, docker.DefaultPostgresImage),
			Username: u.User.Username(),
			Password: password,
			Database: strings.TrimPrefix(u.Path, "/"),
		}, nil
	case config.StoreNeo4j:
		return &docker.ContainerConfig{
			Kind:     docker.KindNeo4j,
			Name:     c.ContainerName,
			Image:    imageOr(c.ContainerImage, docker.DefaultNeo4jImage),
			Username: c.Neo4jUsername,
			Password: c.Neo4jPassword,
		}, nil
	}
	return nil, nil
}

func imageOr(image, def string) string {
	if image == "" {
		return def
	}
	return image
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeUpCmd, storeDownCmd)
}
