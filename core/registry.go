package core

// registryTable maps each Datatype to its Collector implementation. Built
// once in init() so freeze()'s hot path never branches on Datatype identity
// (spec.md §4.4): dispatch is a single map lookup.
var registryTable = map[Datatype]Collector{}

func registerCollector(d Datatype, fn CollectorFunc) {
	registryTable[d] = fn
}

// registerDualCollector registers a ByBoth datatype (spec.md §4.4): byBlock
// and byTransaction are both kept registered, wrapped in one CollectorPair
// that picks between them per call based on which dim the Partition
// populates.
func registerDualCollector(d Datatype, byBlock, byTransaction CollectorFunc) {
	registryTable[d] = CollectorPair{ByBlock: byBlock, ByTransaction: byTransaction}
}

// ResolveCollector returns the Collector registered for d. Every Datatype
// value is expected to be registered by the dataset file that owns it
// (dataset_*.go init functions); an unregistered Datatype is a programming
// error, not a user-facing one.
func ResolveCollector(d Datatype) (Collector, error) {
	c, ok := registryTable[d]
	if !ok {
		return nil, BadParamsf("datatype %s has no registered collector", d.Name())
	}
	return c, nil
}
