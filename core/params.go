package core

import "github.com/ethereum/go-ethereum/common"

// Params is one immutable WorkItem: exactly one value per Dim populated by
// the owning Partition. Accessors fail with ErrBadParams if the dim is
// absent, mirroring original_source's `request.block_number()?` contract.
type Params struct {
	blockNumber     *uint64
	transactionHash *common.Hash
	callData        []byte
	address         *common.Address
	contract        *common.Address
	toAddress       *common.Address
	slot            *[32]byte
	topics          [4]*[32]byte
}

func (p Params) BlockNumber() (uint64, error) {
	if p.blockNumber == nil {
		return 0, BadParams("block_number not populated for this work item")
	}
	return *p.blockNumber, nil
}

func (p Params) TransactionHash() (common.Hash, error) {
	if p.transactionHash == nil {
		return common.Hash{}, BadParams("transaction_hash not populated for this work item")
	}
	return *p.transactionHash, nil
}

func (p Params) CallData() ([]byte, error) {
	if p.callData == nil {
		return nil, BadParams("call_data not populated for this work item")
	}
	return p.callData, nil
}

func (p Params) Address() (common.Address, error) {
	if p.address == nil {
		return common.Address{}, BadParams("address not populated for this work item")
	}
	return *p.address, nil
}

func (p Params) Contract() (common.Address, error) {
	if p.contract == nil {
		return common.Address{}, BadParams("contract not populated for this work item")
	}
	return *p.contract, nil
}

func (p Params) ToAddress() (common.Address, error) {
	if p.toAddress == nil {
		return common.Address{}, BadParams("to_address not populated for this work item")
	}
	return *p.toAddress, nil
}

func (p Params) Slot() ([32]byte, error) {
	if p.slot == nil {
		return [32]byte{}, BadParams("slot not populated for this work item")
	}
	return *p.slot, nil
}

// Topic returns topic n (0..3). n outside [0,3] is reported the same way as
// an unpopulated topic, as a BadParams error.
func (p Params) Topic(n int) ([32]byte, error) {
	if n < 0 || n > 3 || p.topics[n] == nil {
		return [32]byte{}, BadParamsf("topic%d not populated for this work item", n)
	}
	return *p.topics[n], nil
}
