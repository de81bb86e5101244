package core

import "fmt"

var chainNamesByID = map[uint64]string{
	1:         "ethereum",
	10:        "optimism",
	56:        "binance",
	137:       "polygon",
	42161:     "arbitrum",
	43114:     "avalanche",
	11155111:  "sepolia",
}

// ChainName maps a chain id to the network prefix used in output
// filenames, falling back to "network_{chain_id}" for unrecognized chains.
func ChainName(chainID uint64) string {
	if name, ok := chainNamesByID[chainID]; ok {
		return name
	}
	return fmt.Sprintf("network_%d", chainID)
}
