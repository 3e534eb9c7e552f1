package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Function selectors and the Transfer event topic used by the erc20_* and
// erc721_* datasets. Computed from the canonical signatures rather than
// pulled from an ABI JSON, since no ABI-bundling library is part of the
// dependency surface this module draws from.
var (
	selectorBalanceOf    = selector("balanceOf(address)")
	selectorDecimals     = selector("decimals()")
	selectorSymbol       = selector("symbol()")
	selectorName         = selector("name()")
	selectorTotalSupply  = selector("totalSupply()")
	selectorOwnerOf      = selector("ownerOf(uint256)")
	selectorTokenURI     = selector("tokenURI(uint256)")

	topicTransfer = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
)

func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

func encodeAddressArg(a common.Address) []byte {
	out := make([]byte, 32)
	copy(out[12:], a.Bytes())
	return out
}

func encodeUint256Arg(v *big.Int) []byte {
	out := make([]byte, 32)
	v.FillBytes(out)
	return out
}

func callData(sel []byte, args ...[]byte) []byte {
	out := append([]byte(nil), sel...)
	for _, a := range args {
		out = append(out, a...)
	}
	return out
}

// decodeUint256Return parses a 32-byte ABI-encoded uint256 return value.
func decodeUint256Return(out []byte) *big.Int {
	if len(out) < 32 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(out[:32])
}

// decodeAddressReturn parses a 32-byte ABI-encoded address return value.
func decodeAddressReturn(out []byte) common.Address {
	if len(out) < 32 {
		return common.Address{}
	}
	return common.BytesToAddress(out[12:32])
}

// decodeStringReturn parses a dynamic ABI-encoded string return value:
// offset word, length word, then the UTF-8 bytes padded to 32.
func decodeStringReturn(out []byte) string {
	if len(out) < 64 {
		return ""
	}
	length := new(big.Int).SetBytes(out[32:64]).Uint64()
	if uint64(len(out)) < 64+length {
		return ""
	}
	return string(out[64 : 64+length])
}
