package deployment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
)

type (
	Manifest struct {
		Network   configs.NetworkName       `yaml:"network"`
		ChainID   uint64                    `yaml:"chain-id"`
		RPCURL    string                    `yaml:"rpc-url"`
		Contracts map[string]ContractConfig `yaml:"contracts"`
	}

	ContractConfig struct {
		Address common.Address     `yaml:"address"`
		ABI     SingleQuotedString `yaml:"abi"`
	}

	SingleQuotedString string
)

func (s SingleQuotedString) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.SingleQuotedStyle,
		Value: string(s),
	}
	return node, nil
}

func ManifestPath(dir string, network configs.NetworkName) string {
	return filepath.Join(dir, string(network)+".yaml")
}

// WriteManifest writes every recorded contract with its compact ABI.
// Artifact ABIs are preferred over the embedded ones.
func WriteManifest(dir string, network configs.NetworkName, rpcURL string, record Record, artifacts map[contracts.ContractName]contracts.Artifact) error {
	manifest := Manifest{
		Network:   network,
		ChainID:   record.ChainInfo.ChainID,
		RPCURL:    rpcURL,
		Contracts: make(map[string]ContractConfig, len(record.Addresses)),
	}

	for name := range record.Addresses {
		address, ok := record.Address(name)
		if !ok {
			continue
		}

		rawABI := ""
		if artifact, ok := artifacts[name]; ok {
			rawABI = artifact.RawABI
		} else if embedded, err := contracts.RawABI(name); err == nil {
			rawABI = embedded
		}

		manifest.Contracts[strings.ToLower(string(name))] = ContractConfig{
			Address: address,
			ABI:     SingleQuotedString(compactJSON(rawABI)),
		}
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("could not marshal deployment manifest. Err: '%w'", err)
	}

	path := ManifestPath(dir, network)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write deployment manifest. Err: '%w'", err)
	}

	return nil
}

func compactJSON(jsonStr string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(jsonStr)); err != nil {
		return jsonStr
	}
	return buf.String()
}
