// Package node runs a local anvil chain, optionally forking mainnet, in docker.
package node

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"

	"github.com/soulbond/warpets-deployer/configs"
)

const (
	anvilEntrypoint = "anvil"
	listenHost      = "0.0.0.0"
	bindHost        = "127.0.0.1"
)

type containerSpec struct {
	config     *container.Config
	hostConfig *container.HostConfig
}

// Options select the chain the node serves.
type Options struct {
	Image           string
	ContainerName   string
	Port            int
	ChainID         int
	ForkURL         string
	ForkBlockNumber uint64
}

// OptionsFromConfig expands environment references in the fork URL. A fork
// URL whose API key expanded to nothing is dropped.
func OptionsFromConfig(cfg configs.Node) Options {
	forkURL := strings.TrimSpace(os.ExpandEnv(cfg.ForkURL))
	if strings.HasSuffix(forkURL, "/v2/") {
		forkURL = ""
	}

	return Options{
		Image:           cfg.Image,
		ContainerName:   cfg.ContainerName,
		Port:            cfg.Port,
		ChainID:         cfg.ChainID,
		ForkURL:         forkURL,
		ForkBlockNumber: cfg.ForkBlockNumber,
	}
}

func (o Options) Validate() error {
	var errs []error
	if o.Image == "" {
		errs = append(errs, errors.New("node.image is required"))
	}
	if o.ContainerName == "" {
		errs = append(errs, errors.New("node.container-name is required"))
	}
	if o.Port <= 0 || o.Port > 65535 {
		errs = append(errs, fmt.Errorf("node.port %d is out of range", o.Port))
	}
	if o.ForkBlockNumber != 0 && o.ForkURL == "" {
		errs = append(errs, errors.New("node.fork-block-number requires node.fork-url"))
	}
	return errors.Join(errs...)
}

// RPCURL is where the node answers on the host.
func (o Options) RPCURL() string {
	return fmt.Sprintf("http://%s:%d", bindHost, o.Port)
}

// Args are the anvil command-line arguments.
func (o Options) Args() []string {
	port := strconv.Itoa(o.Port)
	args := []string{"--host", listenHost, "--port", port}
	if o.ChainID != 0 {
		args = append(args, "--chain-id", strconv.Itoa(o.ChainID))
	}
	if o.ForkURL != "" {
		args = append(args, "--fork-url", o.ForkURL)
		if o.ForkBlockNumber != 0 {
			args = append(args, "--fork-block-number", strconv.FormatUint(o.ForkBlockNumber, 10))
		}
	}
	return args
}

func (o Options) containerSpec() (containerSpec, error) {
	port, err := nat.NewPort("tcp", strconv.Itoa(o.Port))
	if err != nil {
		return containerSpec{}, fmt.Errorf("invalid port %d: %w", o.Port, err)
	}

	return containerSpec{
		config: &container.Config{
			Image:        o.Image,
			Entrypoint:   []string{anvilEntrypoint},
			Cmd:          o.Args(),
			ExposedPorts: nat.PortSet{port: struct{}{}},
			Labels:       map[string]string{"warpets.node": "anvil"},
		},
		hostConfig: &container.HostConfig{
			PortBindings: nat.PortMap{
				port: []nat.PortBinding{{HostIP: bindHost, HostPort: strconv.Itoa(o.Port)}},
			},
		},
	}, nil
}
