package contracts

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abi/*.json
var abiFS embed.FS

var (
	abiMu    sync.Mutex
	abiCache = make(map[ContractName]abi.ABI)
)

// RawABI returns the embedded ABI JSON for name.
func RawABI(name ContractName) (string, error) {
	data, err := abiFS.ReadFile("abi/" + string(name) + ".json")
	if err != nil {
		return "", fmt.Errorf("no embedded ABI for %s: %w", name, err)
	}

	return string(data), nil
}

// ABI returns the parsed embedded ABI for name.
func ABI(name ContractName) (abi.ABI, error) {
	abiMu.Lock()
	defer abiMu.Unlock()

	if parsed, ok := abiCache[name]; ok {
		return parsed, nil
	}

	raw, err := RawABI(name)
	if err != nil {
		return abi.ABI{}, err
	}

	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
	}
	abiCache[name] = parsed

	return parsed, nil
}

// MustABI is ABI for names known to be embedded.
func MustABI(name ContractName) abi.ABI {
	parsed, err := ABI(name)
	if err != nil {
		panic(err)
	}
	return parsed
}
