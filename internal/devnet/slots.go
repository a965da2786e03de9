package devnet

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ERC721A storage layout of SBREN.
const (
	OwnershipsSlotIndex  uint64 = 4 // mapping(uint256 => TokenOwnership)
	AddressDataSlotIndex uint64 = 5 // mapping(address => AddressData)
)

// MappingSlot is the storage key of key in a mapping at slot.
func MappingSlot(key common.Hash, slot uint64) common.Hash {
	return crypto.Keccak256Hash(key.Bytes(), common.BigToHash(new(big.Int).SetUint64(slot)).Bytes())
}

// OwnershipSlot is the TokenOwnership slot of tokenID.
func OwnershipSlot(tokenID *big.Int, slot uint64) common.Hash {
	return MappingSlot(common.BigToHash(tokenID), slot)
}

// AddressDataSlot is the AddressData slot of owner.
func AddressDataSlot(owner common.Address, slot uint64) common.Hash {
	return MappingSlot(common.BytesToHash(owner.Bytes()), slot)
}

// PackOwnership encodes TokenOwnership{addr, startTimestamp}: the address in
// the low 20 bytes and the timestamp in the 8 bytes above it.
func PackOwnership(startTimestamp uint64, owner common.Address) common.Hash {
	var word common.Hash
	binary.BigEndian.PutUint64(word[4:12], startTimestamp)
	copy(word[12:], owner.Bytes())
	return word
}

// UnpackOwnership is the inverse of PackOwnership.
func UnpackOwnership(word common.Hash) (uint64, common.Address) {
	return binary.BigEndian.Uint64(word[4:12]), common.BytesToAddress(word[12:])
}

// PackAddressData keeps the high 16 bytes of current (the minted count) and
// puts balance into the low 16 bytes. balance must fit in 128 bits.
func PackAddressData(current common.Hash, balance *big.Int) common.Hash {
	var word common.Hash
	copy(word[:16], current[:16])
	balance.FillBytes(word[16:])
	return word
}

// AddressDataBalance reads the balance half of an AddressData word.
func AddressDataBalance(word common.Hash) *big.Int {
	return new(big.Int).SetBytes(word[16:])
}
