package core

// valueDimPopulated reports whether any partition in parts populates dim —
// used to catch a requested datatype whose RequiredParameters() include a
// value-set dim (address, contract, slot, call_data, ...) the caller never
// supplied, which would otherwise silently collect zero rows (WorkItems'
// Cartesian product over an empty value list is empty).
func valueDimPopulated(parts []Partition, dim Dim) bool {
	for _, p := range parts {
		switch dim {
		case DimAddress:
			if len(p.Addresses) > 0 {
				return true
			}
		case DimContract:
			if len(p.Contracts) > 0 {
				return true
			}
		case DimToAddress:
			if len(p.ToAddresses) > 0 {
				return true
			}
		case DimSlot:
			if len(p.Slots) > 0 {
				return true
			}
		case DimTopic0:
			if len(p.Topic0s) > 0 {
				return true
			}
		case DimTopic1:
			if len(p.Topic1s) > 0 {
				return true
			}
		case DimTopic2:
			if len(p.Topic2s) > 0 {
				return true
			}
		case DimTopic3:
			if len(p.Topic3s) > 0 {
				return true
			}
		case DimCallData:
			if len(p.CallDatas) > 0 {
				return true
			}
		default:
			return true // BlockNumber/TransactionHash are enforced upstream by partition construction itself
		}
	}
	return false
}

// ValidatePartitions checks, for every requested datatype, that each of its
// RequiredParameters() is actually populated by at least one partition.
// BadParams on the first unmet requirement, naming both the datatype and
// the missing dim so the caller knows which CLI flag to add.
func ValidatePartitions(datatypes []Datatype, parts []Partition) error {
	if len(parts) == 0 {
		return BadParams("no partitions to validate")
	}
	for _, d := range datatypes {
		for _, dim := range d.RequiredParameters() {
			if dim == DimBlockNumber || dim == DimTransactionHash {
				continue
			}
			if !valueDimPopulated(parts, dim) {
				return BadParamsf("datatype %s requires %s but no values were supplied for it", d.Name(), dim.Plural())
			}
		}
	}
	return nil
}

// ValidateTraceSupport rejects a run up front (ErrBadParams) if any
// requested datatype needs the trace_* RPC namespace and the resolved
// Source never advertised it (Source.SupportsTrace) — without this check a
// plain full node would fail deep inside a chunk's extract phase on every
// single work item instead of once at startup.
func ValidateTraceSupport(datatypes []Datatype, supportsTrace bool) error {
	if supportsTrace {
		return nil
	}
	for _, d := range datatypes {
		if d.RequiresTraceNamespace() {
			return BadParamsf("datatype %s requires the trace_* RPC namespace but the source was not marked as supporting it", d.Name())
		}
	}
	return nil
}
