package node

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soulbond/warpets-deployer/internal/chain"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

type Service struct {
	docker *dockerClient
	logger *slog.Logger
}

func NewService() (*Service, error) {
	docker, err := newDockerClient()
	if err != nil {
		return nil, err
	}
	return &Service{docker: docker, logger: logger.Named("node")}, nil
}

func (s *Service) Close() error {
	return s.docker.Close()
}

// Start replaces any container named opts.ContainerName with a fresh anvil
// and waits until its RPC answers.
func (s *Service) Start(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	log := s.logger.With("container", opts.ContainerName).With("image", opts.Image)

	exists, err := s.docker.imageExists(ctx, opts.Image)
	if err != nil {
		return fmt.Errorf("failed to inspect image %s: %w", opts.Image, err)
	}
	if !exists {
		if err := s.docker.pullImage(ctx, opts.Image); err != nil {
			return err
		}
	}

	if removed, err := s.docker.removeContainer(ctx, opts.ContainerName); err != nil {
		return err
	} else if removed {
		log.Info("removed previous node container")
	}

	spec, err := opts.containerSpec()
	if err != nil {
		return err
	}

	id, err := s.docker.runDetached(ctx, opts.ContainerName, spec)
	if err != nil {
		return err
	}
	log.With("id", id[:min(12, len(id))]).With("forked", opts.ForkURL != "").Info("node container started")

	if err := chain.WaitForRPC(ctx, opts.RPCURL(), 0); err != nil {
		return fmt.Errorf("node did not become ready: %w", err)
	}

	log.With("rpc_url", opts.RPCURL()).Info("node is ready")
	return nil
}

func (s *Service) Stop(ctx context.Context, containerName string) error {
	removed, err := s.docker.removeContainer(ctx, containerName)
	if err != nil {
		return err
	}

	log := s.logger.With("container", containerName)
	if removed {
		log.Info("node container removed")
	} else {
		log.Info("node container not found")
	}
	return nil
}
