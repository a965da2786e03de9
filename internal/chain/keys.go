package chain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// ParsePrivateKey accepts a hex key with or without the 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return key, nil
}

func AddressFromKey(key *ecdsa.PrivateKey) (common.Address, error) {
	publicKey, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, errors.New("failed to cast public key to ECDSA")
	}

	return crypto.PubkeyToAddress(*publicKey), nil
}

// ParseGwei converts a decimal gwei amount such as "40" or "1.5" to wei.
// An empty string yields nil, meaning the node's suggestion is used.
func ParseGwei(gwei string) (*big.Int, error) {
	gwei = strings.TrimSpace(gwei)
	if gwei == "" {
		return nil, nil
	}

	amount, ok := new(big.Rat).SetString(gwei)
	if !ok {
		return nil, fmt.Errorf("invalid gwei amount %q", gwei)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("gwei amount must not be negative: %q", gwei)
	}

	wei := amount.Mul(amount, new(big.Rat).SetInt64(params.GWei))
	if !wei.IsInt() {
		return nil, fmt.Errorf("gwei amount %q has sub-wei precision", gwei)
	}

	return new(big.Int).Set(wei.Num()), nil
}

// FormatEther renders wei as an ether amount with 4 decimals.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0000"
	}

	eth := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetInt(big.NewInt(params.Ether)),
	)

	return eth.Text('f', 4)
}
