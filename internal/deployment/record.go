package deployment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"

	"github.com/soulbond/warpets-deployer/configs"
	"github.com/soulbond/warpets-deployer/internal/contracts"
	"github.com/soulbond/warpets-deployer/internal/logger"
)

type (
	// Record is deployments/<network>.json.
	Record struct {
		ChainInfo ChainInfo                        `json:"chainInfo"`
		Addresses map[contracts.ContractName]string `json:"addresses"`
	}

	ChainInfo struct {
		ChainID uint64 `json:"chainId"`
	}

	// CodeReader reads deployed bytecode.
	CodeReader interface {
		CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
	}
)

func RecordPath(dir string, network configs.NetworkName) string {
	return filepath.Join(dir, string(network)+".json")
}

// ReadRecord loads the record of network. A missing file yields an empty
// record.
func ReadRecord(dir string, network configs.NetworkName) (Record, error) {
	record := Record{Addresses: map[contracts.ContractName]string{}}

	data, err := os.ReadFile(RecordPath(dir, network))
	if errors.Is(err, fs.ErrNotExist) {
		return record, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read deployment record: %w", err)
	}

	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal deployment record: %w", err)
	}
	if record.Addresses == nil {
		record.Addresses = map[contracts.ContractName]string{}
	}

	return record, nil
}

// Address returns the recorded address of name.
func (r Record) Address(name contracts.ContractName) (common.Address, bool) {
	address, ok := r.Addresses[name]
	if !ok || !common.IsHexAddress(address) {
		return common.Address{}, false
	}
	return common.HexToAddress(address), true
}

// WriteRecord merges addresses into the record of network. Contracts deployed
// by earlier scripts are kept unless redeployed.
func WriteRecord(dir string, network configs.NetworkName, chainID uint64, addresses Addresses) (Record, error) {
	record, err := ReadRecord(dir, network)
	if err != nil {
		return Record{}, err
	}

	if record.ChainInfo.ChainID != 0 && record.ChainInfo.ChainID != chainID {
		// a different chain behind the same network name
		record.Addresses = map[contracts.ContractName]string{}
	}
	record.ChainInfo.ChainID = chainID
	for name, address := range addresses {
		record.Addresses[name] = address.Hex()
	}

	if err := writeJSON(RecordPath(dir, network), record); err != nil {
		return Record{}, err
	}

	return record, nil
}

// ResolveAddress picks the address of name for network: the deployment
// record first, then configured. Dev nodes restart on the same chain ID, so a
// recorded address without code on the node is skipped.
func ResolveAddress(ctx context.Context, code CodeReader, dir string, network configs.NetworkName, name contracts.ContractName, configured string) (common.Address, error) {
	record, err := ReadRecord(dir, network)
	if err != nil {
		return common.Address{}, err
	}
	if address, ok := record.Address(name); ok {
		deployed, err := code.CodeAt(ctx, address, nil)
		if err != nil {
			return common.Address{}, fmt.Errorf("failed to get code of recorded %s at %s: %w", name, address.Hex(), err)
		}
		if len(deployed) > 0 {
			return address, nil
		}
		logger.Named("deployment_record").
			With("contract", name).
			With("address", address.Hex()).
			Warn("recorded contract has no code, ignoring the record")
	}

	if common.IsHexAddress(configured) {
		return common.HexToAddress(configured), nil
	}

	return common.Address{}, fmt.Errorf("no address for %s on %s: deploy it or set it in the contracts config", name, network)
}

func writeJSON(path string, data any) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(content, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
