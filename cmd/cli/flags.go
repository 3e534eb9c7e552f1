// Package cli holds ethfreeze's cobra commands, one file per command in the
// teacher's cmd/cli convention (see access_control.go's PersistentPreRunE
// pattern).
package cli

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/pflag"

	"ethfreeze/core"
)

// resolveValueDimInputs reads every --address/--contract/--to-address/--slot/
// --topic*/--call-data flag and parses it into a valueDimInputs, one CLI
// entry point for the value-set dims attachValueDims cross-products in.
func resolveValueDimInputs(flags *pflag.FlagSet) (valueDimInputs, error) {
	var in valueDimInputs
	var err error

	get := func(name string) []string {
		v, _ := flags.GetStringSlice(name)
		return v
	}

	if in.Addresses, err = parseAddressList(get("address")); err != nil {
		return in, err
	}
	if in.Contracts, err = parseAddressList(get("contract")); err != nil {
		return in, err
	}
	if in.ToAddresses, err = parseAddressList(get("to-address")); err != nil {
		return in, err
	}
	if in.Slots, err = parseHashList(get("slot")); err != nil {
		return in, err
	}
	if in.Topic0s, err = parseHashList(get("topic0")); err != nil {
		return in, err
	}
	if in.Topic1s, err = parseHashList(get("topic1")); err != nil {
		return in, err
	}
	if in.Topic2s, err = parseHashList(get("topic2")); err != nil {
		return in, err
	}
	if in.Topic3s, err = parseHashList(get("topic3")); err != nil {
		return in, err
	}
	if in.CallDatas, err = parseCallDataList(get("call-data")); err != nil {
		return in, err
	}
	return in, nil
}

// parseBlocksFlag resolves --blocks tokens into block-number Partitions.
// Each token may be a single block number or a "start:end" closed range;
// tokens/sub-tokens may be comma-separated. Ranges are chunked by
// chunkSize/nChunks (spec.md §4.1); bare numbers are grouped chunkSize at a
// time into non-contiguous partitions.
func parseBlocksFlag(tokens []string, chunkSize, nChunks uint64) ([]core.Partition, error) {
	if len(tokens) == 0 {
		tokens = []string{"17000000:17000100"}
	}

	var explicit []uint64
	var out []core.Partition

	for _, tok := range tokens {
		for _, piece := range strings.Split(tok, ",") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if lo, hi, ok := strings.Cut(piece, ":"); ok {
				start, err := strconv.ParseUint(lo, 10, 64)
				if err != nil {
					return nil, core.BadParamsf("invalid --blocks range %q: %v", piece, err)
				}
				end, err := strconv.ParseUint(hi, 10, 64)
				if err != nil {
					return nil, core.BadParamsf("invalid --blocks range %q: %v", piece, err)
				}
				parts, err := core.BlockPartitions(core.BlockChunkSpec{Start: start, End: end, ChunkSize: chunkSize, NChunks: nChunks})
				if err != nil {
					return nil, err
				}
				out = append(out, parts...)
				continue
			}
			v, err := strconv.ParseUint(piece, 10, 64)
			if err != nil {
				return nil, core.BadParamsf("invalid --blocks value %q: %v", piece, err)
			}
			explicit = append(explicit, v)
		}
	}

	if len(explicit) > 0 {
		sort.Slice(explicit, func(i, j int) bool { return explicit[i] < explicit[j] })
		size := int(chunkSize)
		if size <= 0 {
			size = 1
		}
		for lo := 0; lo < len(explicit); lo += size {
			hi := lo + size
			if hi > len(explicit) {
				hi = len(explicit)
			}
			out = append(out, core.Partition{BlockNumbers: append([]uint64(nil), explicit[lo:hi]...)})
		}
	}

	if len(out) == 0 {
		return nil, core.BadParams("--blocks produced no partitions")
	}
	return out, nil
}

// resolveRPCURL applies spec.md §6's source resolution: --rpc, else
// $ETH_RPC_URL, prefixed with "http://" when it lacks an http(s) scheme.
func resolveRPCURL(flagValue string) (string, error) {
	raw := flagValue
	if raw == "" {
		raw = os.Getenv("ETH_RPC_URL")
	}
	if raw == "" {
		return "", core.BadParams("no RPC URL: pass --rpc or set ETH_RPC_URL")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	return raw, nil
}

// splitHexList flattens repeated/comma-separated flag values into trimmed
// tokens, same splitting convention as splitColumnsFlag.
func splitHexList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

func parseAddressList(values []string) ([]common.Address, error) {
	var out []common.Address
	for _, tok := range splitHexList(values) {
		if !common.IsHexAddress(tok) {
			return nil, core.BadParamsf("invalid address %q", tok)
		}
		out = append(out, common.HexToAddress(tok))
	}
	return out, nil
}

func parseHashList(values []string) ([][32]byte, error) {
	var out [][32]byte
	for _, tok := range splitHexList(values) {
		b, err := hexutil.Decode(padHex32(tok))
		if err != nil || len(b) != 32 {
			return nil, core.BadParamsf("invalid 32-byte value %q", tok)
		}
		var h [32]byte
		copy(h[:], b)
		out = append(out, h)
	}
	return out, nil
}

func parseCallDataList(values []string) ([][]byte, error) {
	var out [][]byte
	for _, tok := range splitHexList(values) {
		b, err := hexutil.Decode(tok)
		if err != nil {
			return nil, core.BadParamsf("invalid --call-data %q: %v", tok, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// padHex32 left-pads a hex scalar (e.g. a bare slot index) out to 32 bytes,
// the same convention eth_getStorageAt callers use for slot keys.
func padHex32(tok string) string {
	h := strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	if len(h)%2 != 0 {
		h = "0" + h
	}
	for len(h) < 64 {
		h = "00" + h
	}
	return "0x" + h
}

// valueDimInputs holds the parsed --address/--contract/--to-address/--slot/
// --topic*/--call-data flag values: every non-block Dim a datatype can
// require (spec.md §4.1 "value-set dims").
type valueDimInputs struct {
	Addresses   []common.Address
	Contracts   []common.Address
	ToAddresses []common.Address
	Slots       [][32]byte
	Topic0s     [][32]byte
	Topic1s     [][32]byte
	Topic2s     [][32]byte
	Topic3s     [][32]byte
	CallDatas   [][]byte
}

// attachValueDims sub-chunks blockPartitions by each populated value-set dim
// at the default group size of one value per partition (spec.md §4.1),
// taking the Cartesian product across every dim in turn. A dim with no
// supplied values passes every partition through unchanged.
func attachValueDims(blockPartitions []core.Partition, in valueDimInputs) []core.Partition {
	parts := blockPartitions
	parts = crossAddresses(parts, in.Addresses, func(p *core.Partition, a common.Address) { p.Addresses = []common.Address{a} })
	parts = crossAddresses(parts, in.Contracts, func(p *core.Partition, a common.Address) { p.Contracts = []common.Address{a} })
	parts = crossAddresses(parts, in.ToAddresses, func(p *core.Partition, a common.Address) { p.ToAddresses = []common.Address{a} })
	parts = crossHashes(parts, in.Slots, func(p *core.Partition, h [32]byte) { p.Slots = [][32]byte{h} })
	parts = crossHashes(parts, in.Topic0s, func(p *core.Partition, h [32]byte) { p.Topic0s = [][32]byte{h} })
	parts = crossHashes(parts, in.Topic1s, func(p *core.Partition, h [32]byte) { p.Topic1s = [][32]byte{h} })
	parts = crossHashes(parts, in.Topic2s, func(p *core.Partition, h [32]byte) { p.Topic2s = [][32]byte{h} })
	parts = crossHashes(parts, in.Topic3s, func(p *core.Partition, h [32]byte) { p.Topic3s = [][32]byte{h} })
	parts = crossCallData(parts, in.CallDatas, func(p *core.Partition, b []byte) { p.CallDatas = [][]byte{b} })
	return parts
}

func crossAddresses(base []core.Partition, vals []common.Address, set func(*core.Partition, common.Address)) []core.Partition {
	if len(vals) == 0 {
		return base
	}
	out := make([]core.Partition, 0, len(base)*len(vals))
	for _, b := range base {
		for _, v := range vals {
			p := b
			set(&p, v)
			out = append(out, p)
		}
	}
	return out
}

func crossHashes(base []core.Partition, vals [][32]byte, set func(*core.Partition, [32]byte)) []core.Partition {
	if len(vals) == 0 {
		return base
	}
	out := make([]core.Partition, 0, len(base)*len(vals))
	for _, b := range base {
		for _, v := range vals {
			p := b
			set(&p, v)
			out = append(out, p)
		}
	}
	return out
}

func crossCallData(base []core.Partition, vals [][]byte, set func(*core.Partition, []byte)) []core.Partition {
	if len(vals) == 0 {
		return base
	}
	out := make([]core.Partition, 0, len(base)*len(vals))
	for _, b := range base {
		for _, v := range vals {
			p := b
			set(&p, v)
			out = append(out, p)
		}
	}
	return out
}

// splitColumnsFlag turns a repeated/comma-separated --include-columns or
// --exclude-columns flag value into a flat column-name list, nil when
// unset (preserving BuildSchema's "nil means default subset" contract).
func splitColumnsFlag(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	var out []string
	for _, v := range values {
		for _, c := range strings.Split(v, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}
