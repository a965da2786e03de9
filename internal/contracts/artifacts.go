package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const hardhatArtifactFormat = "hh-sol-artifact-1"

var ErrArtifactNotFound = errors.New("artifact not found")

type hardhatArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// LoadArtifacts reads the Hardhat artifacts of names from dir. Each is looked
// up at contracts/<Name>.sol/<Name>.json first and then anywhere below dir.
func LoadArtifacts(dir string, names ...ContractName) (map[ContractName]Artifact, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("artifacts directory not found. Directory: '%s': %w", dir, err)
	}

	loaded := make(map[ContractName]Artifact, len(names))
	for _, name := range names {
		path, err := findArtifact(dir, name)
		if err != nil {
			return nil, err
		}

		artifact, err := readArtifact(path, name)
		if err != nil {
			return nil, err
		}
		loaded[name] = artifact
	}

	return loaded, nil
}

func findArtifact(dir string, name ContractName) (string, error) {
	fileName := string(name) + ".json"

	conventional := filepath.Join(dir, "contracts", string(name)+".sol", fileName)
	if _, err := os.Stat(conventional); err == nil {
		return conventional, nil
	}

	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// build-info holds solc input/output, never a contract artifact
		if d.IsDir() && d.Name() == "build-info" {
			return filepath.SkipDir
		}
		if !d.IsDir() && d.Name() == fileName {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search %s for %s: %w", dir, name, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, name, dir)
	}

	return found, nil
}

func readArtifact(path string, name ContractName) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return Artifact{}, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	if raw.Format != "" && raw.Format != hardhatArtifactFormat {
		return Artifact{}, fmt.Errorf("artifact %s has unsupported format %q", path, raw.Format)
	}
	if raw.ContractName != "" && raw.ContractName != string(name) {
		return Artifact{}, fmt.Errorf("artifact %s is for %s, not %s", path, raw.ContractName, name)
	}

	parsedABI, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
	}

	// Unlinked library references look like __$<34 hex chars>$__.
	if strings.Contains(raw.Bytecode, "__$") {
		return Artifact{}, fmt.Errorf("bytecode of %s has unlinked library references", name)
	}

	bytecode, err := hexutil.Decode(raw.Bytecode)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to decode bytecode of %s: %w", name, err)
	}
	if len(bytecode) == 0 {
		return Artifact{}, fmt.Errorf("artifact %s has no bytecode (abstract contract or interface?)", name)
	}

	return Artifact{
		Name:     name,
		ABI:      parsedABI,
		RawABI:   string(raw.ABI),
		Bytecode: bytecode,
	}, nil
}
