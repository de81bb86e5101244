package core

import "strings"

// Datatype is the closed catalog of extractable record families. Adding a
// new one is a new constant plus a catalog entry and collector
// implementation — never a runtime-loaded plugin (per the dispatch design
// in SPEC_FULL.md §9).
type Datatype int

const (
	DatatypeBlocks Datatype = iota
	DatatypeTransactions
	DatatypeLogs
	DatatypeTraces
	DatatypeContracts
	DatatypeErc20Transfers
	DatatypeBalanceDiffs
	DatatypeCodeDiffs
	DatatypeNonceDiffs
	DatatypeStorageDiffs
	DatatypeGethBalanceDiffs
	DatatypeGethCodeDiffs
	DatatypeGethNonceDiffs
	DatatypeGethStorageDiffs
	DatatypeNativeTransfers
	DatatypeTransactionAddresses
	DatatypeErc20Supplies
	DatatypeAddressAppearances
	DatatypeVmTraces
	DatatypeGethOpcodes
)

func sortDatatypes(dts []Datatype) {
	for i := 1; i < len(dts); i++ {
		for j := i; j > 0 && dts[j-1] > dts[j]; j-- {
			dts[j-1], dts[j] = dts[j], dts[j-1]
		}
	}
}

// DatatypeSpec is the catalog entry for one Datatype: its name, aliases,
// column catalog, default selection/sort, allowed partition dimensions, and
// which collector capabilities it implements.
type DatatypeSpec struct {
	Name                 string
	Aliases              []string
	ColumnOrder          []string
	ColumnTypes          map[string]ColumnType
	DefaultColumns        []string
	DefaultSort          []string
	AllowedPartitionDims []Dim
	CollectByBlock       bool
	CollectByTransaction bool

	// UsesBlockRanges is true when ExtractByBlock wants a BlockWindow per
	// param set (one RPC call covering several blocks) rather than a single
	// block number per call. Only DatatypeLogs' eth_getLogs collector reads
	// a range; every other block-indexed collector calls eth_getBlockByNumber
	// (or similar) once per block and asserts params[DimBlockNumber] is a
	// plain uint64.
	UsesBlockRanges bool
}

func col(order []string, types ...ColumnType) map[string]ColumnType {
	m := make(map[string]ColumnType, len(order))
	for i, name := range order {
		if i < len(types) {
			m[name] = types[i]
		} else {
			m[name] = ColumnString
		}
	}
	return m
}

var chainIDCol = "chain_id"

var datatypeCatalog map[Datatype]*DatatypeSpec

func init() {
	datatypeCatalog = map[Datatype]*DatatypeSpec{
		DatatypeBlocks: {
			Name:    "blocks",
			Aliases: []string{"block"},
			ColumnOrder: []string{
				"hash", "parent_hash", "author", "state_root", "transactions_root",
				"receipts_root", "number", "gas_used", "gas_limit", "extra_data",
				"logs_bloom", "timestamp", "total_difficulty", "size",
				"base_fee_per_gas", chainIDCol,
			},
			ColumnTypes: col([]string{
				"hash", "parent_hash", "author", "state_root", "transactions_root",
				"receipts_root", "number", "gas_used", "gas_limit", "extra_data",
				"logs_bloom", "timestamp", "total_difficulty", "size",
				"base_fee_per_gas", chainIDCol,
			}, ColumnBinary, ColumnBinary, ColumnBinary, ColumnBinary, ColumnBinary,
				ColumnBinary, ColumnUInt64, ColumnUInt64, ColumnUInt64, ColumnBinary,
				ColumnBinary, ColumnUInt64, ColumnUInt256, ColumnUInt64,
				ColumnUInt256, ColumnUInt64),
			DefaultColumns: []string{
				"number", "hash", "parent_hash", "author", "gas_used", "gas_limit",
				"base_fee_per_gas", "timestamp", "size", chainIDCol,
			},
			DefaultSort:          []string{"number"},
			AllowedPartitionDims: []Dim{DimBlockNumber},
			CollectByBlock:       true,
		},
		DatatypeTransactions: {
			Name:    "transactions",
			Aliases: []string{"txs", "tx"},
			ColumnOrder: []string{
				"block_number", "transaction_index", "transaction_hash", "from_address",
				"to_address", "value", "input", "gas_limit", "gas_used", "gas_price",
				"max_fee_per_gas", "max_priority_fee_per_gas", "nonce", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "transaction_index", "transaction_hash", "from_address",
				"to_address", "value", "input", "gas_limit", "gas_used", "gas_price",
				"max_fee_per_gas", "max_priority_fee_per_gas", "nonce", chainIDCol,
			}, ColumnUInt64, ColumnUInt32, ColumnBinary, ColumnBinary, ColumnBinary,
				ColumnUInt256, ColumnBinary, ColumnUInt64, ColumnUInt64, ColumnUInt256,
				ColumnUInt256, ColumnUInt256, ColumnUInt64, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "transaction_index", "transaction_hash", "from_address",
				"to_address", "value", "gas_used", "gas_price", "nonce", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "transaction_index"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimTransactionHash},
			CollectByBlock:       true,
			CollectByTransaction: true,
		},
		DatatypeLogs: {
			Name:    "logs",
			Aliases: []string{"events", "event"},
			ColumnOrder: []string{
				"block_number", "transaction_hash", "log_index", "address",
				"topic0", "topic1", "topic2", "topic3", "data", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "transaction_hash", "log_index", "address",
				"topic0", "topic1", "topic2", "topic3", "data", chainIDCol,
			}, ColumnUInt64, ColumnBinary, ColumnUInt32, ColumnBinary,
				ColumnBinary, ColumnBinary, ColumnBinary, ColumnBinary, ColumnBinary, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "transaction_hash", "log_index", "address",
				"topic0", "topic1", "topic2", "topic3", "data", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "log_index"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimAddress, DimTopic0, DimTopic1, DimTopic2, DimTopic3},
			CollectByBlock:       true,
			UsesBlockRanges:      true,
		},
		DatatypeTraces: {
			Name:    "traces",
			Aliases: []string{"trace"},
			ColumnOrder: []string{
				"block_number", "transaction_hash", "trace_address", "subtraces",
				"action_type", "action_call_type", "action_from", "action_to",
				"action_value", "action_gas", "action_input", "action_init",
				"action_author", "action_reward_type", "result_gas_used",
				"result_output", "result_code", "result_address", "error", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "transaction_hash", "trace_address", "subtraces",
				"action_type", "action_call_type", "action_from", "action_to",
				"action_value", "action_gas", "action_input", "action_init",
				"action_author", "action_reward_type", "result_gas_used",
				"result_output", "result_code", "result_address", "error", chainIDCol,
			}, ColumnUInt64, ColumnBinary, ColumnString, ColumnUInt32,
				ColumnString, ColumnString, ColumnBinary, ColumnBinary,
				ColumnUInt256, ColumnUInt64, ColumnBinary, ColumnBinary,
				ColumnBinary, ColumnString, ColumnUInt64,
				ColumnBinary, ColumnBinary, ColumnBinary, ColumnString, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "transaction_hash", "trace_address", "action_type",
				"action_from", "action_to", "action_value", "result_gas_used", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "transaction_hash", "trace_address"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimTransactionHash},
			CollectByBlock:       true,
			CollectByTransaction: true,
		},
		DatatypeContracts: {
			Name: "contracts",
			ColumnOrder: []string{
				"block_number", "transaction_hash", "contract_address", "deployer",
				"factory", "init_code", "code", "init_code_hash", "code_hash",
				"create_index", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "transaction_hash", "contract_address", "deployer",
				"factory", "init_code", "code", "init_code_hash", "code_hash",
				"create_index", chainIDCol,
			}, ColumnUInt64, ColumnBinary, ColumnBinary, ColumnBinary,
				ColumnBinary, ColumnBinary, ColumnBinary, ColumnBinary, ColumnBinary,
				ColumnUInt32, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "transaction_hash", "contract_address", "deployer",
				"factory", "code_hash", "create_index", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "create_index"},
			AllowedPartitionDims: []Dim{DimBlockNumber},
			CollectByBlock:       true,
		},
		DatatypeErc20Transfers: {
			Name:    "erc20_transfers",
			Aliases: []string{"erc20"},
			ColumnOrder: []string{
				"block_number", "transaction_hash", "log_index", "erc20",
				"from_address", "to_address", "value", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "transaction_hash", "log_index", "erc20",
				"from_address", "to_address", "value", chainIDCol,
			}, ColumnUInt64, ColumnBinary, ColumnUInt32, ColumnBinary,
				ColumnBinary, ColumnBinary, ColumnUInt256, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "transaction_hash", "log_index", "erc20",
				"from_address", "to_address", "value", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "log_index"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimContract},
			CollectByBlock:       true,
		},
		DatatypeBalanceDiffs:     stateDiffSpec("balance_diffs", false, ColumnUInt256),
		DatatypeCodeDiffs:        stateDiffSpec("code_diffs", false, ColumnBinary),
		DatatypeNonceDiffs:       stateDiffSpec("nonce_diffs", false, ColumnUInt256),
		DatatypeStorageDiffs:     stateDiffSpec("storage_diffs", true, ColumnBinary),
		DatatypeGethBalanceDiffs: stateDiffSpec("geth_balance_diffs", false, ColumnUInt256),
		DatatypeGethCodeDiffs:    stateDiffSpec("geth_code_diffs", false, ColumnBinary),
		DatatypeGethNonceDiffs:   stateDiffSpec("geth_nonce_diffs", false, ColumnUInt256),
		DatatypeGethStorageDiffs: stateDiffSpec("geth_storage_diffs", true, ColumnBinary),
		DatatypeNativeTransfers: {
			Name: "native_transfers",
			ColumnOrder: []string{
				"block_number", "transaction_hash", "from_address", "to_address",
				"value", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "transaction_hash", "from_address", "to_address",
				"value", chainIDCol,
			}, ColumnUInt64, ColumnBinary, ColumnBinary, ColumnBinary, ColumnUInt256, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "transaction_hash", "from_address", "to_address", "value", chainIDCol,
			},
			DefaultSort:          []string{"block_number"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimTransactionHash},
			CollectByBlock:       true,
			CollectByTransaction: true,
		},
		DatatypeTransactionAddresses: {
			Name: "transaction_addresses",
			ColumnOrder: []string{
				"block_number", "transaction_hash", "address", "address_role", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "transaction_hash", "address", "address_role", chainIDCol,
			}, ColumnUInt64, ColumnBinary, ColumnBinary, ColumnString, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "transaction_hash", "address", "address_role", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "transaction_hash"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimTransactionHash},
			CollectByBlock:       true,
			CollectByTransaction: true,
		},
		DatatypeErc20Supplies: {
			Name: "erc20_supplies",
			ColumnOrder: []string{
				"block_number", "erc20", "total_supply", chainIDCol,
			},
			ColumnTypes: col([]string{
				"block_number", "erc20", "total_supply", chainIDCol,
			}, ColumnUInt64, ColumnBinary, ColumnUInt256, ColumnUInt64),
			DefaultColumns: []string{
				"block_number", "erc20", "total_supply", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "erc20"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimContract},
			CollectByBlock:       true,
		},
		DatatypeAddressAppearances: {
			Name: "address_appearances",
			ColumnOrder: []string{
				"address", "block_number", "transaction_hash", "appearance_type", chainIDCol,
			},
			ColumnTypes: col([]string{
				"address", "block_number", "transaction_hash", "appearance_type", chainIDCol,
			}, ColumnBinary, ColumnUInt64, ColumnBinary, ColumnString, ColumnUInt64),
			DefaultColumns: []string{
				"address", "block_number", "transaction_hash", "appearance_type", chainIDCol,
			},
			DefaultSort:          []string{"block_number", "address"},
			AllowedPartitionDims: []Dim{DimBlockNumber, DimAddress},
			CollectByBlock:       true,
		},
		DatatypeVmTraces:    opcodeSpec("vm_traces"),
		DatatypeGethOpcodes: opcodeSpec("geth_opcodes"),
	}
}

func stateDiffSpec(name string, hasSlot bool, valueType ColumnType) *DatatypeSpec {
	order := []string{"block_number", "transaction_hash", "address"}
	types := []ColumnType{ColumnUInt64, ColumnBinary, ColumnBinary}
	if hasSlot {
		order = append(order, "slot")
		types = append(types, ColumnBinary)
	}
	order = append(order, "from_value", "to_value", chainIDCol)
	types = append(types, valueType, valueType, ColumnUInt64)
	return &DatatypeSpec{
		Name:                 name,
		ColumnOrder:          order,
		ColumnTypes:          col(order, types...),
		DefaultColumns:       order,
		DefaultSort:          []string{"block_number", "address"},
		AllowedPartitionDims: []Dim{DimBlockNumber, DimTransactionHash},
		CollectByBlock:       true,
		CollectByTransaction: true,
	}
}

func opcodeSpec(name string) *DatatypeSpec {
	order := []string{"block_number", "transaction_hash", "pc", "op", "gas", "gas_cost", "depth", chainIDCol}
	types := []ColumnType{ColumnUInt64, ColumnBinary, ColumnUInt32, ColumnString, ColumnUInt64, ColumnUInt64, ColumnUInt32, ColumnUInt64}
	return &DatatypeSpec{
		Name:                 name,
		ColumnOrder:          order,
		ColumnTypes:          col(order, types...),
		DefaultColumns:       order,
		DefaultSort:          []string{"block_number", "transaction_hash", "pc"},
		AllowedPartitionDims: []Dim{DimBlockNumber, DimTransactionHash},
		CollectByTransaction: true,
	}
}

// Spec returns the catalog entry for a Datatype.
func (d Datatype) Spec() *DatatypeSpec {
	return datatypeCatalog[d]
}

func (d Datatype) String() string {
	if s := datatypeCatalog[d]; s != nil {
		return s.Name
	}
	return "unknown"
}

// ParseDatatype resolves a CLI token (name or alias, case-insensitive) to a
// Datatype.
func ParseDatatype(token string) (Datatype, error) {
	lower := strings.ToLower(token)
	for dt, spec := range datatypeCatalog {
		if spec.Name == lower {
			return dt, nil
		}
		for _, alias := range spec.Aliases {
			if alias == lower {
				return dt, nil
			}
		}
	}
	return 0, &ParseError{Token: token, Reason: "unknown datatype"}
}

// MultiDatatype bundles datatypes requested under one name. The
// state_diffs and geth_state_diffs members share a single extract call and
// are transformed from the same RPC response; blocks_and_transactions does
// not: its members are collected by the separate blocks and transactions
// collectors, each with its own extract.
type MultiDatatype struct {
	Name    string
	Members []Datatype
}

var multiDatatypeCatalog = map[string]*MultiDatatype{
	"blocks_and_transactions": {
		Name:    "blocks_and_transactions",
		Members: []Datatype{DatatypeBlocks, DatatypeTransactions},
	},
	"state_diffs": {
		Name:    "state_diffs",
		Members: []Datatype{DatatypeBalanceDiffs, DatatypeCodeDiffs, DatatypeNonceDiffs, DatatypeStorageDiffs},
	},
	"geth_state_diffs": {
		Name:    "geth_state_diffs",
		Members: []Datatype{DatatypeGethBalanceDiffs, DatatypeGethCodeDiffs, DatatypeGethNonceDiffs, DatatypeGethStorageDiffs},
	},
}

// ParseMultiDatatype resolves a bundle name to its member Datatypes.
func ParseMultiDatatype(token string) (*MultiDatatype, bool) {
	m, ok := multiDatatypeCatalog[strings.ToLower(token)]
	return m, ok
}
