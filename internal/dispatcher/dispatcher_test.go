package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

const (
	testAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	testABI     = `[
		{"type":"function","name":"balanceOf","stateMutability":"view",
		 "inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]},
		{"type":"function","name":"transfer","stateMutability":"nonpayable",
		 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
		 "outputs":[{"name":"","type":"bool"}]},
		{"type":"function","name":"batch","stateMutability":"nonpayable",
		 "inputs":[{"name":"items","type":"tuple[]","components":[
		   {"name":"label","type":"string"},{"name":"on","type":"bool"}]}],"outputs":[]}
	]`
)

func function(t *testing.T, name string) schema.Function {
	t.Helper()
	for _, fn := range schema.Parse(testABI) {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return schema.Function{}
}

type recorder struct {
	states []State
}

func (r *recorder) observe(_ schema.Function, s State) { r.states = append(r.states, s) }

func messages(entries []logsink.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestDispatch_ViewNeverNeedsSigner(t *testing.T) {
	chain := &MockChain{}
	fn := function(t, "balanceOf")
	chain.On("Query", mock.Anything, testAddress, fn, []value.Node{value.Scalar(testAddress)}).
		Return(big.NewInt(1000), nil)

	sink := logsink.NewMemorySink()
	rec := &recorder{}
	d := New(chain, sink, WithStateObserver(rec.observe))

	out := d.Dispatch(context.Background(), testAddress, fn, []value.Node{value.Scalar("  " + testAddress + " ")})

	require.Equal(t, Succeeded, out.State)
	assert.NoError(t, out.Err)
	assert.Equal(t, "1000", out.Result)
	assert.Equal(t, []State{Preparing, ReadInFlight, Succeeded, Idle}, rec.states)

	entries := sink.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, logsink.Success, entries[0].Severity)
	assert.Equal(t, "Result (balanceOf)", entries[0].Message)
	assert.Contains(t, logsink.FormatData(entries[0]), "1000")
	assert.Equal(t, "Calling balanceOf...", entries[1].Message)

	chain.AssertNotCalled(t, "SignerAddress")
	chain.AssertExpectations(t)
}

func TestDispatch_PayableWithoutSignerFails(t *testing.T) {
	chain := &MockChain{}
	chain.On("SignerAddress").Return("", false)

	sink := logsink.NewMemorySink()
	rec := &recorder{}
	d := New(chain, sink, WithStateObserver(rec.observe))

	out := d.Dispatch(context.Background(), testAddress, function(t, "deposit"), nil)

	assert.Equal(t, Failed, out.State)
	assert.ErrorIs(t, out.Err, ErrNoSigner)
	assert.Equal(t, []State{Preparing, Failed, Idle}, rec.states)
	chain.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	entries := sink.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, logsink.Error, entries[0].Severity)
	assert.Equal(t, "Failed", entries[0].Message)
	assert.Equal(t, ErrNoSigner.Error(), entries[0].Data)
}

func TestDispatch_WriteConfirmed(t *testing.T) {
	chain := &MockChain{}
	fn := function(t, "transfer")
	args := []value.Node{value.Scalar(testAddress), value.Scalar("5")}
	chain.On("SignerAddress").Return(testAddress, true)
	chain.On("Submit", mock.Anything, testAddress, fn, args).Return(SubmissionHandle("0xfeed"), nil)
	chain.On("AwaitConfirmation", mock.Anything, SubmissionHandle("0xfeed")).
		Return(&Confirmation{Status: StatusSuccess, Block: "42", Hash: "0xfeed"}, nil)

	sink := logsink.NewMemorySink()
	rec := &recorder{}
	d := New(chain, sink, WithStateObserver(rec.observe))

	out := d.Dispatch(context.Background(), testAddress, fn, args)

	require.Equal(t, Succeeded, out.State)
	assert.Equal(t, SubmissionHandle("0xfeed"), out.Handle)
	assert.Equal(t, []State{Preparing, WriteSubmitting, WriteConfirming, Succeeded, Idle}, rec.states)
	assert.Equal(t, []string{"Confirmed", "Transaction sent", "Calling transfer..."}, messages(sink.Entries()))

	confirmed := sink.Entries()[0]
	assert.Equal(t, logsink.Success, confirmed.Severity)
	assert.Equal(t, map[string]any{"status": "success", "block": "42", "hash": "0xfeed"}, confirmed.Data)
	chain.AssertExpectations(t)
}

func TestDispatch_RevertedReceiptIsWarning(t *testing.T) {
	chain := &MockChain{}
	chain.On("SignerAddress").Return(testAddress, true)
	chain.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(SubmissionHandle("0x01"), nil)
	chain.On("AwaitConfirmation", mock.Anything, SubmissionHandle("0x01")).
		Return(&Confirmation{Status: StatusReverted, Block: "7", Hash: "0x01"}, nil)

	sink := logsink.NewMemorySink()
	out := New(chain, sink).Dispatch(context.Background(), testAddress, function(t, "deposit"), nil)

	assert.Equal(t, Succeeded, out.State)
	assert.Equal(t, logsink.Warning, sink.Entries()[0].Severity)
}

func TestDispatch_ConfirmationFailureAfterSubmit(t *testing.T) {
	chain := &MockChain{}
	chain.On("SignerAddress").Return(testAddress, true)
	chain.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(SubmissionHandle("0xabc"), nil)
	chain.On("AwaitConfirmation", mock.Anything, SubmissionHandle("0xabc")).
		Return(nil, &shortError{short: "receipt not found", long: "rpc error: receipt not found after 120 blocks"})

	sink := logsink.NewMemorySink()
	rec := &recorder{}
	out := New(chain, sink, WithStateObserver(rec.observe)).
		Dispatch(context.Background(), testAddress, function(t, "deposit"), nil)

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, []State{Preparing, WriteSubmitting, WriteConfirming, Failed, Idle}, rec.states)

	entries := sink.Entries()
	assert.Equal(t, []string{"Failed", "Transaction sent", "Calling deposit..."}, messages(entries))
	assert.Equal(t, "receipt not found", entries[0].Data)
	assert.Equal(t, map[string]any{"hash": "0xabc"}, entries[1].Data)
}

func TestDispatch_QueryFailureUsesGenericMessage(t *testing.T) {
	chain := &MockChain{}
	chain.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("execution reverted"))

	sink := logsink.NewMemorySink()
	out := New(chain, sink).Dispatch(context.Background(), testAddress, function(t, "balanceOf"), []value.Node{value.Scalar("0x0")})

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, "execution reverted", sink.Entries()[0].Data)
}

func TestDispatch_Preconditions(t *testing.T) {
	sink := logsink.NewMemorySink()
	var states []State
	observe := WithStateObserver(func(_ schema.Function, s State) { states = append(states, s) })

	out := New(nil, sink, observe).Dispatch(context.Background(), testAddress, function(t, "deposit"), nil)
	assert.ErrorIs(t, out.Err, ErrNoChain)
	assert.Equal(t, []string{"Failed"}, messages(sink.Entries()))
	assert.Equal(t, "network client not ready", sink.Entries()[0].Data)
	assert.Equal(t, []State{Preparing, Failed, Idle}, states)

	sink.Clear()
	chain := &MockChain{}
	out = New(chain, sink).Dispatch(context.Background(), "  ", function(t, "deposit"), nil)
	assert.ErrorIs(t, out.Err, ErrNoAddress)
	assert.Equal(t, []string{"Failed"}, messages(sink.Entries()))
	chain.AssertNotCalled(t, "SignerAddress")
}

func TestPrepare_TrimsTextLeavesOnly(t *testing.T) {
	fn := function(t, "batch")
	args := []value.Node{value.List(
		value.List(value.Scalar("  hello "), value.Scalar("true")),
		value.List(value.Scalar("\tx\n"), value.Scalar("false")),
	)}

	prepared := Prepare(fn, args)
	assert.Equal(t, []any{[]any{[]any{"hello", "true"}, []any{"x", "false"}}}, value.Interfaces(prepared))
	assert.Equal(t, "  hello ", args[0].At(0).At(0).Text())
}

func TestShortMessage(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", &shortError{short: "insufficient funds", long: "long"})
	assert.Equal(t, "insufficient funds", ShortMessage(wrapped))
	assert.Equal(t, "plain", ShortMessage(errors.New("plain")))
	assert.Equal(t, "long", ShortMessage(&shortError{long: "long"}))
}

type pair struct {
	Owner   common.Address `json:"owner"`
	Balance *big.Int       `json:"balance"`
	Nonce   uint64
	Small   uint8  `json:"small"`
	Tag     [4]byte `json:"tag"`
}

func TestRender(t *testing.T) {
	huge, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	addr := common.HexToAddress(testAddress)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"big int", huge, huge.String()},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"int64", int64(-5), "-5"},
		{"small int stays numeric", uint8(7), uint64(7)},
		{"address", addr, addr.Hex()},
		{"bytes", []byte{0xde, 0xad}, "0xdead"},
		{"fixed bytes", [2]byte{0xbe, 0xef}, "0xbeef"},
		{"list", []*big.Int{big.NewInt(1), big.NewInt(2)}, []any{"1", "2"}},
		{"multiple outputs", []any{true, "x"}, []any{true, "x"}},
		{"tuple", pair{Owner: addr, Balance: big.NewInt(9), Nonce: 3, Small: 1, Tag: [4]byte{1, 2, 3, 4}},
			map[string]any{"owner": addr.Hex(), "balance": "9", "Nonce": "3", "small": uint64(1), "tag": "0x01020304"}},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.in))
		})
	}
}
