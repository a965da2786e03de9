package holdings

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbond/warpets-deployer/internal/contracts"
)

var (
	sbrenAddress   = common.HexToAddress("0xaCc2Fcc87F57C52F945E3F373B32264E76DcFF84")
	warPetsAddress = common.HexToAddress("0xeBd7d4184C7Cc0982165BE74AF3ad94486eBDbf2")
	boss           = common.HexToAddress("0x4f5e99cbe7d6f054c770d8292f8421b7e9db906c")
)

// fakeChain serves SBREN enumeration and war pet claims from memory.
type fakeChain struct {
	tokens  map[common.Address][]int64
	claimed map[int64]bool
	failAt  int64
	balance *big.Int
	calls   []string
}

func (f *fakeChain) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	name := contracts.ContractNameSbren
	if *call.To == warPetsAddress {
		name = contracts.ContractNameSoulbondWarPets
	}
	parsed := contracts.MustABI(name)

	method, err := parsed.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, method.Name)

	switch method.Name {
	case "balanceOf":
		if f.balance != nil {
			return method.Outputs.Pack(f.balance)
		}
		owner := args[0].(common.Address)
		return method.Outputs.Pack(big.NewInt(int64(len(f.tokens[owner]))))
	case "tokenOfOwnerByIndex":
		owner, index := args[0].(common.Address), args[1].(*big.Int).Int64()
		if f.failAt >= 0 && index == f.failAt {
			return nil, errors.New("header not found")
		}
		return method.Outputs.Pack(big.NewInt(f.tokens[owner][index]))
	case "tokenClaims":
		if args[0].(*big.Int).Sign() != 0 {
			return method.Outputs.Pack(false)
		}
		return method.Outputs.Pack(f.claimed[args[1].(*big.Int).Int64()])
	}

	return nil, errors.New("unexpected call to " + method.Name)
}

func newScanner(t *testing.T, chain *fakeChain, warPetID int64) *Scanner {
	t.Helper()

	sbren, err := contracts.NewSbren(sbrenAddress, chain)
	require.NoError(t, err)
	warPets, err := contracts.NewSoulbondWarPets(warPetsAddress, chain)
	require.NoError(t, err)

	return NewScanner(sbren, warPets, big.NewInt(warPetID))
}

func ints(ids []*big.Int) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Int64())
	}
	return out
}

func TestTokenIDs(t *testing.T) {
	chain := &fakeChain{
		tokens: map[common.Address][]int64{boss: {7, 3, 12}},
		failAt: -1,
	}
	scanner := newScanner(t, chain, 0)

	ids, err := scanner.TokenIDs(context.Background(), boss)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3, 12}, ints(ids))
	assert.Equal(t, []string{"balanceOf", "tokenOfOwnerByIndex", "tokenOfOwnerByIndex", "tokenOfOwnerByIndex"}, chain.calls)
}

func TestTokenIDsEmpty(t *testing.T) {
	scanner := newScanner(t, &fakeChain{failAt: -1}, 0)

	ids, err := scanner.TokenIDs(context.Background(), boss)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestTokenIDsPropagatesErrors(t *testing.T) {
	chain := &fakeChain{
		tokens: map[common.Address][]int64{boss: {7, 3, 12}},
		failAt: 1,
	}
	scanner := newScanner(t, chain, 0)

	_, err := scanner.TokenIDs(context.Background(), boss)
	require.ErrorContains(t, err, "failed to get token 1 of")
	assert.ErrorContains(t, err, "header not found")
}

func TestFilteredTokenIDs(t *testing.T) {
	chain := &fakeChain{
		tokens:  map[common.Address][]int64{boss: {7, 3, 12}},
		claimed: map[int64]bool{3: true, 12: true},
		failAt:  -1,
	}
	scanner := newScanner(t, chain, 0)
	ctx := context.Background()

	minted, err := scanner.FilteredTokenIDs(ctx, true, boss)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 12}, ints(minted))

	unminted, err := scanner.FilteredTokenIDs(ctx, false, boss)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ints(unminted))
}

func TestFilteredTokenIDsUsesWarPetID(t *testing.T) {
	chain := &fakeChain{
		tokens:  map[common.Address][]int64{boss: {7, 3}},
		claimed: map[int64]bool{3: true, 7: true},
		failAt:  -1,
	}
	scanner := newScanner(t, chain, 1)

	minted, err := scanner.FilteredTokenIDs(context.Background(), true, boss)
	require.NoError(t, err)
	assert.Empty(t, minted)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, "filteredTokenIds", boss, []*big.Int{big.NewInt(3), big.NewInt(12)})

	out := buf.String()
	assert.Contains(t, out, "TOKEN ID")
	assert.Regexp(t, `\|\s+0\s+\|\s+3\s+\|`, out)
	assert.Regexp(t, `\|\s+1\s+\|\s+12\s+\|`, out)
	assert.Regexp(t, `\|\s+TOTAL\s+\|\s+2\s+\|`, out)
}

func TestTokenIDsRejectsOutOfRangeBalance(t *testing.T) {
	chain := &fakeChain{
		balance: new(big.Int).Lsh(common.Big1, 63),
		failAt:  -1,
	}
	scanner := newScanner(t, chain, 0)

	_, err := scanner.TokenIDs(context.Background(), boss)
	require.ErrorContains(t, err, "out of range")
	assert.Equal(t, []string{"balanceOf"}, chain.calls)
}

func TestTokenIDsLargeBalanceFailsAtFirstMissingToken(t *testing.T) {
	chain := &fakeChain{
		tokens:  map[common.Address][]int64{boss: {5}},
		balance: big.NewInt(1 << 40),
		failAt:  1,
	}
	scanner := newScanner(t, chain, 0)

	_, err := scanner.TokenIDs(context.Background(), boss)
	require.ErrorContains(t, err, "failed to get token 1 of")
	assert.Equal(t, []string{"balanceOf", "tokenOfOwnerByIndex", "tokenOfOwnerByIndex"}, chain.calls)
}
