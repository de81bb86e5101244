package core

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type tracesCollector struct{}

func init() {
	registerCollector(collectorRegistration{
		Members:       []Datatype{DatatypeTraces},
		ByBlock:       tracesCollector{},
		ByTransaction: tracesCollector{},
	})
}

func (tracesCollector) ExtractByBlock(ctx context.Context, params Params, source *Source) (any, error) {
	n, ok := params[DimBlockNumber].(uint64)
	if !ok {
		return nil, &CollectError{Reason: "traces collector requires a single block number param"}
	}
	return source.Fetcher.TraceBlock(ctx, n)
}

func (tracesCollector) ExtractByTransaction(ctx context.Context, params Params, source *Source) (any, error) {
	hash, ok := params[DimTransactionHash].([]byte)
	if !ok {
		return nil, &CollectError{Reason: "traces collector requires a single transaction hash param"}
	}
	return source.Fetcher.TraceTransaction(ctx, common.BytesToHash(hash))
}

// parityAction is the union of every Action variant's fields; unused
// fields are left zero depending on trace.Type.
type parityAction struct {
	CallType      string `json:"callType"`
	From          string `json:"from"`
	To            string `json:"to"`
	Value         string `json:"value"`
	Gas           string `json:"gas"`
	Input         string `json:"input"`
	Init          string `json:"init"`
	Author        string `json:"author"`
	RewardType    string `json:"rewardType"`
	Address       string `json:"address"`
	RefundAddress string `json:"refundAddress"`
	Balance       string `json:"balance"`
}

type parityResult struct {
	GasUsed string `json:"gasUsed"`
	Output  string `json:"output"`
	Code    string `json:"code"`
	Address string `json:"address"`
}

func (tracesCollector) TransformByBlock(resp any, dfs map[Datatype]*DataFrame) error {
	return tracesCollector{}.transform(resp, dfs)
}

func (tracesCollector) TransformByTransaction(resp any, dfs map[Datatype]*DataFrame) error {
	return tracesCollector{}.transform(resp, dfs)
}

func (tracesCollector) transform(resp any, dfs map[Datatype]*DataFrame) error {
	df, ok := dfs[DatatypeTraces]
	if !ok {
		return nil
	}
	traces, ok := resp.([]RawTrace)
	if !ok {
		return &CollectError{Reason: "traces transform expected a []RawTrace response"}
	}
	for _, t := range traces {
		if err := appendTraceRow(df, t); err != nil {
			return err
		}
	}
	return nil
}

func appendTraceRow(df *DataFrame, t RawTrace) error {
	var action parityAction
	if len(t.Action) > 0 {
		if err := json.Unmarshal(t.Action, &action); err != nil {
			return &CollectError{Reason: "malformed trace action", Err: err}
		}
	}
	var result parityResult
	hasResult := len(t.Result) > 0 && string(t.Result) != "null"
	if hasResult {
		if err := json.Unmarshal(t.Result, &result); err != nil {
			return &CollectError{Reason: "malformed trace result", Err: err}
		}
	}
	if t.BlockNumber == 0 {
		return &CollectError{Reason: "trace missing block number"}
	}

	blockNumber := t.BlockNumber
	traceAddr := traceAddressString(t.TraceAddress)
	subtraces := uint32(t.Subtraces)
	actionType := t.Type
	callType := action.CallType
	if callType == "" {
		callType = "none"
	}

	row := RowValues{
		"block_number":     func() any { return blockNumber },
		"trace_address":    func() any { return traceAddr },
		"subtraces":        func() any { return subtraces },
		"action_type":      func() any { return actionType },
		"action_call_type": func() any { return callType },
	}
	if t.TransactionHash != nil {
		h := *t.TransactionHash
		row["transaction_hash"] = func() any { return h.Bytes() }
	}
	if action.From != "" {
		row["action_from"] = func() any { return hexutil.MustDecode(padHex(action.From)) }
	}
	to := action.To
	if to == "" {
		to = action.Address
	}
	if to != "" {
		row["action_to"] = func() any { return hexutil.MustDecode(padHex(to)) }
	}
	if action.Value != "" {
		AddU256Column(row, df, "action_value", NewU256FromBytes(hexToBigBytes(action.Value)))
	}
	if action.Gas != "" {
		gas := hexutil.MustDecodeUint64(action.Gas)
		row["action_gas"] = func() any { return gas }
	}
	if action.Input != "" {
		row["action_input"] = func() any { return hexutil.MustDecode(padHex(action.Input)) }
	}
	if action.Init != "" {
		row["action_init"] = func() any { return hexutil.MustDecode(padHex(action.Init)) }
	}
	if action.Author != "" {
		row["action_author"] = func() any { return hexutil.MustDecode(padHex(action.Author)) }
	}
	if action.RewardType != "" {
		row["action_reward_type"] = func() any { return action.RewardType }
	}
	if t.Error != "" {
		row["error"] = func() any { return t.Error }
	}
	if hasResult {
		if result.GasUsed != "" {
			gasUsed := hexutil.MustDecodeUint64(result.GasUsed)
			row["result_gas_used"] = func() any { return gasUsed }
		}
		if result.Output != "" {
			row["result_output"] = func() any { return hexutil.MustDecode(padHex(result.Output)) }
		}
		if result.Code != "" {
			row["result_code"] = func() any { return hexutil.MustDecode(padHex(result.Code)) }
		}
		if result.Address != "" {
			row["result_address"] = func() any { return hexutil.MustDecode(padHex(result.Address)) }
		}
	}
	df.AppendRow(row)
	return nil
}

func traceAddressString(addr []int) string {
	parts := make([]string, len(addr))
	for i, n := range addr {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func padHex(s string) string {
	if !strings.HasPrefix(s, "0x") {
		return "0x" + s
	}
	return s
}

func hexToBigBytes(s string) []byte {
	b, err := hexutil.DecodeBig(padHex(s))
	if err != nil {
		return nil
	}
	return b.Bytes()
}
