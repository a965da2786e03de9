package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/soulbond/warpets-deployer/internal/chain"
)

var ErrNoTransactor = errors.New("contract is not connected to a transactor")

type (
	// Caller executes read-only calls.
	Caller interface {
		CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	}

	// Transactor sends state-changing calls on behalf of From and waits for
	// the receipt.
	Transactor interface {
		From() common.Address
		Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error)
	}

	boundContract struct {
		name       ContractName
		address    common.Address
		abi        abi.ABI
		caller     Caller
		transactor Transactor
	}
)

func newBoundContract(name ContractName, address common.Address, caller Caller) (boundContract, error) {
	parsed, err := ABI(name)
	if err != nil {
		return boundContract{}, err
	}

	return boundContract{
		name:    name,
		address: address,
		abi:     parsed,
		caller:  caller,
	}, nil
}

func (c *boundContract) call(ctx context.Context, from common.Address, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s.%s: %w", c.name, method, err)
	}

	result, err := c.caller.CallContract(ctx, ethereum.CallMsg{From: from, To: &c.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s.%s call failed: %w", c.name, method, chain.DecodeRevert(err))
	}

	values, err := c.abi.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s.%s: %w", c.name, method, err)
	}

	return values, nil
}

func (c *boundContract) transact(ctx context.Context, value *big.Int, method string, args ...any) (*types.Receipt, error) {
	if c.transactor == nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, ErrNoTransactor)
	}

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s.%s: %w", c.name, method, err)
	}

	receipt, err := c.transactor.Transact(ctx, c.address, value, data)
	if err != nil {
		return receipt, fmt.Errorf("%s.%s failed: %w", c.name, method, chain.DecodeRevert(err))
	}

	return receipt, nil
}

func single[T any](values []any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if len(values) != 1 {
		return zero, fmt.Errorf("expected 1 return value, got %d", len(values))
	}

	out, ok := values[0].(T)
	if !ok {
		return zero, fmt.Errorf("unexpected return type %T", values[0])
	}

	return out, nil
}
