package node

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"github.com/soulbond/warpets-deployer/internal/logger"
)

type dockerClient struct {
	cli    *client.Client
	logger *slog.Logger
}

func newDockerClient() (*dockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &dockerClient{cli: cli, logger: logger.Named("docker_client")}, nil
}

func (c *dockerClient) Close() error {
	return c.cli.Close()
}

func (c *dockerClient) imageExists(ctx context.Context, name string) (bool, error) {
	if _, err := c.cli.ImageInspect(ctx, name); err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *dockerClient) pullImage(ctx context.Context, name string) error {
	c.logger.With("image", name).Info("pulling docker image")

	resp, err := c.cli.ImagePull(ctx, name, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer resp.Close()

	if err := readPullStream(resp, c.logger); err != nil {
		return err
	}

	c.logger.With("image", name).Info("docker image pulled")
	return nil
}

// readPullStream drains the JSON progress stream of an image pull and
// returns the last error message it carried.
func readPullStream(r io.Reader, log *slog.Logger) error {
	var pullErr error

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		log.Debug(string(line))

		var msg struct {
			Error       string `json:"error"`
			ErrorDetail struct {
				Message string `json:"message"`
			} `json:"errorDetail"`
		}
		if err := json.Unmarshal(line, &msg); err == nil && msg.Error != "" {
			pullErr = fmt.Errorf("pull failed: %s", msg.Error)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading pull output: %w", err)
	}

	return pullErr
}

// removeContainer force-removes name. A missing container is not an error.
func (c *dockerClient) removeContainer(ctx context.Context, name string) (bool, error) {
	err := c.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if errdefs.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to remove container %s: %w", name, err)
	}
	return true, nil
}

func (c *dockerClient) runDetached(ctx context.Context, name string, spec containerSpec) (string, error) {
	resp, err := c.cli.ContainerCreate(ctx, spec.config, spec.hostConfig, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := c.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = c.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	return resp.ID, nil
}
