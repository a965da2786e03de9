package chain

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

var ErrReceiptFailed = errors.New("transaction failed")

var (
	errorSelector = crypto.Keccak256([]byte("Error(string)"))[:4]
	panicSelector = crypto.Keccak256([]byte("Panic(uint256)"))[:4]

	reasonStringPattern = regexp.MustCompile(`reverted with reason string '(.*)'`)
	panicCodePattern    = regexp.MustCompile(`reverted with (panic code 0x[0-9a-fA-F]+ \(.*\))`)
	executionPattern    = regexp.MustCompile(`execution reverted: (.+)$`)
)

// Solidity panic codes, worded as hardhat reports them.
var panicReasons = map[uint64]string{
	0x00: "Generic compiler inserted panic",
	0x01: "Assertion error",
	0x11: "Arithmetic operation underflowed or overflowed outside of an unchecked block",
	0x12: "Division or modulo division by zero",
	0x21: "Tried to convert a value into an enum, but the value was too big or negative",
	0x22: "Incorrectly encoded storage byte array",
	0x31: ".pop() was called on an empty array",
	0x32: "Array accessed at an out-of-bounds or negative index",
	0x41: "Too much memory was allocated, or an array was created that is too large",
	0x51: "Called a zero-initialized variable of internal function type",
}

// RevertError is a contract call or transaction that reverted.
type RevertError struct {
	Reason string
	Data   []byte
	err    error
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return "execution reverted: " + e.Reason
	}
	if len(e.Data) >= 4 {
		return fmt.Sprintf("execution reverted (custom error 0x%x)", e.Data[:4])
	}
	return "execution reverted"
}

func (e *RevertError) Unwrap() error {
	return e.err
}

// DecodeRevert converts node errors carrying revert data or a revert message
// into a *RevertError. Other errors are returned unchanged.
func DecodeRevert(err error) error {
	if err == nil {
		return nil
	}

	var revertErr *RevertError
	if errors.As(err, &revertErr) {
		return err
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertData(dataErr.ErrorData()); len(data) > 0 {
			return &RevertError{Reason: UnpackReason(data), Data: data, err: err}
		}
	}

	if reason, ok := reasonFromMessage(err.Error()); ok {
		return &RevertError{Reason: reason, err: err}
	}

	return err
}

// IsRevertedWith reports whether err is a revert whose reason contains reason.
func IsRevertedWith(err error, reason string) bool {
	var revertErr *RevertError
	if !errors.As(DecodeRevert(err), &revertErr) {
		return false
	}

	return strings.Contains(revertErr.Reason, reason)
}

// UnpackReason decodes Error(string) and Panic(uint256) revert payloads.
// Custom errors yield an empty reason.
func UnpackReason(data []byte) string {
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], errorSelector):
		reason, err := abi.UnpackRevert(data)
		if err != nil {
			return ""
		}
		return reason
	case len(data) == 4+32 && bytes.Equal(data[:4], panicSelector):
		code := new(big.Int).SetBytes(data[4:])
		description, ok := panicReasons[code.Uint64()]
		if !code.IsUint64() || !ok {
			description = "Unknown panic code"
		}
		return fmt.Sprintf("panic code 0x%x (%s)", code, description)
	}

	return ""
}

func revertData(errorData any) []byte {
	switch data := errorData.(type) {
	case string:
		decoded, err := hexutil.Decode(data)
		if err != nil {
			// Some nodes omit the 0x prefix.
			if decoded, err = hex.DecodeString(data); err != nil {
				return nil
			}
		}
		return decoded
	case map[string]any:
		return revertData(data["data"])
	}

	return nil
}

func reasonFromMessage(message string) (string, bool) {
	for _, pattern := range []*regexp.Regexp{reasonStringPattern, panicCodePattern, executionPattern} {
		if match := pattern.FindStringSubmatch(message); match != nil {
			return match[1], true
		}
	}

	return "", false
}
