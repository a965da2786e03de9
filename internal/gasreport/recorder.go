// Package gasreport collects gas usage per contract method and renders it
// with fiat costs.
package gasreport

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/soulbond/warpets-deployer/internal/contracts"
)

const MethodDeployment = "deployment"

type (
	// Entry aggregates the gas used by one contract method.
	Entry struct {
		Contract string
		Method   string
		Calls    int
		Min      uint64
		Max      uint64
		Total    uint64
	}

	entryKey struct {
		contract string
		method   string
	}

	tracked struct {
		name contracts.ContractName
		abi  abi.ABI
	}

	// Recorder is safe for concurrent use.
	Recorder struct {
		mu      sync.Mutex
		tracked map[common.Address]tracked
		entries map[entryKey]*Entry
	}

	recordingTransactor struct {
		contracts.Transactor
		recorder *Recorder
	}
)

func NewRecorder() *Recorder {
	return &Recorder{
		tracked: make(map[common.Address]tracked),
		entries: make(map[entryKey]*Entry),
	}
}

func (e Entry) Avg() uint64 {
	if e.Calls == 0 {
		return 0
	}
	return e.Total / uint64(e.Calls)
}

// Track names the contract at address so its calls are reported by method.
func (r *Recorder) Track(name contracts.ContractName, address common.Address) error {
	parsed, err := contracts.ABI(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked[address] = tracked{name: name, abi: parsed}

	return nil
}

func (r *Recorder) Record(contract, method string, gasUsed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entryKey{contract: contract, method: method}
	entry, ok := r.entries[key]
	if !ok {
		entry = &Entry{Contract: contract, Method: method, Min: gasUsed, Max: gasUsed}
		r.entries[key] = entry
	}

	entry.Calls++
	entry.Total += gasUsed
	entry.Min = min(entry.Min, gasUsed)
	entry.Max = max(entry.Max, gasUsed)
}

// RecordDeployment records a contract creation and tracks the new contract.
func (r *Recorder) RecordDeployment(name contracts.ContractName, address common.Address, receipt *types.Receipt) {
	r.Record(string(name), MethodDeployment, receipt.GasUsed)
	// names without an embedded ABI are still recorded, only not tracked
	_ = r.Track(name, address)
}

// Wrap returns a Transactor recording the gas of every successful
// transaction sent through t.
func (r *Recorder) Wrap(t contracts.Transactor) contracts.Transactor {
	return &recordingTransactor{Transactor: t, recorder: r}
}

// Entries returns a snapshot ordered by contract and method.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Contract != entries[j].Contract {
			return entries[i].Contract < entries[j].Contract
		}
		return entries[i].Method < entries[j].Method
	})

	return entries
}

func (r *Recorder) describe(to common.Address, data []byte) (string, string) {
	r.mu.Lock()
	contract, ok := r.tracked[to]
	r.mu.Unlock()

	if !ok {
		if len(data) < 4 {
			return to.Hex(), "(transfer)"
		}
		return to.Hex(), fmt.Sprintf("0x%x", data[:4])
	}
	if len(data) < 4 {
		return string(contract.name), "(receive)"
	}

	method, err := contract.abi.MethodById(data[:4])
	if err != nil {
		return string(contract.name), fmt.Sprintf("0x%x", data[:4])
	}
	return string(contract.name), method.RawName
}

func (t *recordingTransactor) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	receipt, err := t.Transactor.Transact(ctx, to, value, data)
	if err == nil && receipt != nil && receipt.Status == types.ReceiptStatusSuccessful {
		contract, method := t.recorder.describe(to, data)
		t.recorder.Record(contract, method, receipt.GasUsed)
	}

	return receipt, err
}
