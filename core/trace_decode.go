package core

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// buildFilterQuery turns a block range + address/topic selection into the
// ethereum.FilterQuery eth_getLogs expects.
func buildFilterQuery(fromBlock, toBlock uint64, addresses []common.Address, topics [][]common.Hash) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: addresses,
		Topics:    topics,
	}
}

// callMsg builds the eth_call message for a read-only contract call at a
// fixed block height (CollectorKind ByBlockOnly datasets, e.g. eth_calls).
func callMsg(to common.Address, data []byte) ethereum.CallMsg {
	return ethereum.CallMsg{To: &to, Data: data}
}

func hexBlockNumber(n uint64) string {
	return hexutil.EncodeUint64(n)
}

// rawFlatTrace mirrors the trace_block/trace_transaction JSON shape (a
// "parity style" flat trace): action/result nested objects, traceAddress
// path, and an optional error string.
type rawFlatTrace struct {
	Action struct {
		CallType string          `json:"callType"`
		From     common.Address  `json:"from"`
		To       common.Address  `json:"to"`
		Value    *hexutil.Big    `json:"value"`
		Gas      hexutil.Uint64  `json:"gas"`
		Input    hexutil.Bytes   `json:"input"`
		Address  *common.Address `json:"address"` // suicide
	} `json:"action"`
	Result *struct {
		GasUsed hexutil.Uint64 `json:"gasUsed"`
		Output  hexutil.Bytes  `json:"output"`
		Address *common.Address `json:"address"` // create
	} `json:"result"`
	Error               string         `json:"error"`
	TraceAddress        []int          `json:"traceAddress"`
	TransactionHash      common.Hash    `json:"transactionHash"`
	TransactionPosition  int            `json:"transactionPosition"`
	BlockNumber          hexutil.Uint64 `json:"blockNumber"`
	Type                 string         `json:"type"`
}

func decodeFlatTraces(raw []rawFlatTrace) []FlatTrace {
	out := make([]FlatTrace, 0, len(raw))
	for _, r := range raw {
		ft := FlatTrace{
			BlockNumber:         uint64(r.BlockNumber),
			TransactionHash:     r.TransactionHash,
			TransactionPosition: r.TransactionPosition,
			TraceAddress:        r.TraceAddress,
			Type:                r.Type,
			CallType:            r.Action.CallType,
			From:                r.Action.From,
			To:                  r.Action.To,
			Gas:                 uint64(r.Action.Gas),
			Input:               r.Action.Input,
			Error:               r.Error,
		}
		if r.Action.Value != nil {
			ft.Value = r.Action.Value.ToInt()
		} else {
			ft.Value = new(big.Int)
		}
		if r.Action.Address != nil {
			ft.To = *r.Action.Address // suicide target
		}
		if r.Result != nil {
			ft.GasUsed = uint64(r.Result.GasUsed)
			ft.Output = r.Result.Output
			if r.Result.Address != nil {
				ft.To = *r.Result.Address // created contract address
			}
		}
		out = append(out, ft)
	}
	return out
}

// rawReplayResult mirrors one entry of a trace_replayBlockTransactions
// response with the "stateDiff" tracer enabled.
type rawReplayResult struct {
	TransactionHash common.Hash `json:"transactionHash"`
	StateDiff       map[string]rawAccountDiff `json:"stateDiff"`
}

type rawAccountDiff struct {
	Balance rawDiffValue            `json:"balance"`
	Nonce   rawDiffValue            `json:"nonce"`
	Code    rawDiffValue            `json:"code"`
	Storage map[string]rawDiffValue `json:"storage"`
}

// rawDiffValue captures parity's tagged union: "=" (unchanged), {"+": v}
// (born), {"-": v} (died), {"*": {"from": v, "to": v}} (changed). The literal
// "=" case arrives as a bare JSON string, everything else as a single-key
// object, so this needs a custom unmarshaler rather than struct tags alone.
type rawDiffValue struct {
	Plus  json.RawMessage
	Minus json.RawMessage
	Star  *struct {
		From json.RawMessage `json:"from"`
		To   json.RawMessage `json:"to"`
	}
}

func (d *rawDiffValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte(`"="`)) {
		return nil
	}
	var obj struct {
		Plus  json.RawMessage `json:"+"`
		Minus json.RawMessage `json:"-"`
		Star  *struct {
			From json.RawMessage `json:"from"`
			To   json.RawMessage `json:"to"`
		} `json:"*"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.Plus, d.Minus, d.Star = obj.Plus, obj.Minus, obj.Star
	return nil
}

func (d rawDiffValue) kind() DiffKind {
	switch {
	case d.Plus != nil:
		return DiffBorn
	case d.Minus != nil:
		return DiffDied
	case d.Star != nil:
		return DiffChanged
	default:
		return DiffSame
	}
}

func decodeBigDiff(d rawDiffValue) (kind DiffKind, from, to *big.Int) {
	kind = d.kind()
	switch kind {
	case DiffBorn:
		to = decodeHexBig(d.Plus)
	case DiffDied:
		from = decodeHexBig(d.Minus)
	case DiffChanged:
		from = decodeHexBig(d.Star.From)
		to = decodeHexBig(d.Star.To)
	}
	return
}

func decodeHexBig(raw json.RawMessage) *big.Int {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return new(big.Int)
	}
	b, ok := new(big.Int).SetString(trimHexPrefix(s), 16)
	if !ok {
		return new(big.Int)
	}
	return b
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// rawStructLoggerResult mirrors debug_traceTransaction's default
// structLogger response shape.
type rawStructLoggerResult struct {
	Gas        uint64             `json:"gas"`
	Failed     bool               `json:"failed"`
	StructLogs []rawStructLogStep `json:"structLogs"`
}

type rawStructLogStep struct {
	Pc      uint64 `json:"pc"`
	Op      string `json:"op"`
	Gas     uint64 `json:"gas"`
	GasCost uint64 `json:"gasCost"`
	Depth   int    `json:"depth"`
}

func decodeStateDiffResults(block uint64, raw []rawReplayResult) []StateDiffResult {
	out := make([]StateDiffResult, 0, len(raw))
	for pos, r := range raw {
		res := StateDiffResult{
			BlockNumber:         block,
			TransactionHash:     r.TransactionHash,
			TransactionPosition: pos,
		}
		for addrHex, acct := range r.StateDiff {
			addr := common.HexToAddress(addrHex)
			kind, balFrom, balTo := decodeBigDiff(acct.Balance)
			_, nonceFromBig, nonceToBig := decodeBigDiff(acct.Nonce)
			_, codeFromRaw, codeToRaw := decodeBytesDiff(acct.Code)
			sd := StateDiff{
				Address: addr,
				Kind:    kind,
				From:    balFrom,
				To:      balTo,
			}
			if nonceFromBig != nil {
				sd.NonceFrom = nonceFromBig.Uint64()
			}
			if nonceToBig != nil {
				sd.NonceTo = nonceToBig.Uint64()
			}
			sd.CodeFrom = codeFromRaw
			sd.CodeTo = codeToRaw
			for slotHex, sv := range acct.Storage {
				skind, sFrom, sTo := decodeHashDiff(sv)
				entry := StorageDiffEntry{Kind: skind}
				copy(entry.Slot[:], common.HexToHash(slotHex).Bytes())
				if sFrom != nil {
					copy(entry.From[:], sFrom.Bytes())
				}
				if sTo != nil {
					copy(entry.To[:], sTo.Bytes())
				}
				sd.Storage = append(sd.Storage, entry)
			}
			res.Diffs = append(res.Diffs, sd)
		}
		out = append(out, res)
	}
	return out
}

func decodeBytesDiff(d rawDiffValue) (kind DiffKind, from, to []byte) {
	kind = d.kind()
	switch kind {
	case DiffBorn:
		to = decodeHexBytes(d.Plus)
	case DiffDied:
		from = decodeHexBytes(d.Minus)
	case DiffChanged:
		from = decodeHexBytes(d.Star.From)
		to = decodeHexBytes(d.Star.To)
	}
	return
}

func decodeHexBytes(raw json.RawMessage) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil
	}
	return b
}

func decodeHashDiff(d rawDiffValue) (kind DiffKind, from, to *common.Hash) {
	kind = d.kind()
	switch kind {
	case DiffBorn:
		h := decodeHexHash(d.Plus)
		to = &h
	case DiffDied:
		h := decodeHexHash(d.Minus)
		from = &h
	case DiffChanged:
		hf := decodeHexHash(d.Star.From)
		ht := decodeHexHash(d.Star.To)
		from, to = &hf, &ht
	}
	return
}

func decodeHexHash(raw json.RawMessage) common.Hash {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return common.Hash{}
	}
	return common.HexToHash(s)
}
