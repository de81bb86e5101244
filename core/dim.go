package core

import "fmt"

// Dim is a dimension along which a Query can be partitioned. The set is
// closed: every collector declares which of these dimensions it accepts.
type Dim int

const (
	DimBlockNumber Dim = iota
	DimTransactionHash
	DimCallData
	DimAddress
	DimContract
	DimToAddress
	DimSlot
	DimTopic0
	DimTopic1
	DimTopic2
	DimTopic3
)

// AllDims lists every dimension in a fixed canonical order. Partition.Dims
// and label ordering both rely on this order being stable.
var AllDims = []Dim{
	DimBlockNumber,
	DimTransactionHash,
	DimCallData,
	DimAddress,
	DimContract,
	DimToAddress,
	DimSlot,
	DimTopic0,
	DimTopic1,
	DimTopic2,
	DimTopic3,
}

// String renders the dimension's canonical short name, used for CLI parsing
// and error messages.
func (d Dim) String() string {
	switch d {
	case DimBlockNumber:
		return "block"
	case DimTransactionHash:
		return "transaction"
	case DimCallData:
		return "call_data"
	case DimAddress:
		return "address"
	case DimContract:
		return "contract"
	case DimToAddress:
		return "to_address"
	case DimSlot:
		return "slot"
	case DimTopic0:
		return "topic0"
	case DimTopic1:
		return "topic1"
	case DimTopic2:
		return "topic2"
	case DimTopic3:
		return "topic3"
	default:
		return fmt.Sprintf("dim(%d)", int(d))
	}
}

// PluralName is the file-stub word used when building label pieces and
// default-partition decisions (e.g. "blocks", "addresses").
func (d Dim) PluralName() string {
	switch d {
	case DimBlockNumber:
		return "blocks"
	case DimTransactionHash:
		return "transactions"
	case DimCallData:
		return "call_datas"
	case DimAddress:
		return "addresses"
	case DimContract:
		return "contracts"
	case DimToAddress:
		return "to_addresses"
	case DimSlot:
		return "slots"
	case DimTopic0:
		return "topic0s"
	case DimTopic1:
		return "topic1s"
	case DimTopic2:
		return "topic2s"
	case DimTopic3:
		return "topic3s"
	default:
		return "unknown"
	}
}

// ParseDim resolves a CLI-facing dimension name to a Dim. Unknown names are
// reported as a ParseError so callers can surface the offending token.
func ParseDim(name string) (Dim, error) {
	for _, d := range AllDims {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, &ParseError{Token: name, Reason: "unknown partition dimension"}
}

// IsBinary reports whether the dimension's inner value type is a byte
// string (true) as opposed to u64 (false, BlockNumber only).
func (d Dim) IsBinary() bool {
	return d != DimBlockNumber
}
