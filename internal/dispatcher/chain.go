package dispatcher

import (
	"context"

	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

// SubmissionHandle identifies a submitted write, usually a transaction hash.
type SubmissionHandle string

type ReceiptStatus string

const (
	StatusSuccess  ReceiptStatus = "success"
	StatusReverted ReceiptStatus = "reverted"
)

// Confirmation is the outcome of awaiting a submission.
type Confirmation struct {
	Status ReceiptStatus
	Block  string
	Hash   SubmissionHandle
}

// Chain is the collaborator that encodes calls and talks to the network.
// fn.Descriptor() is the single-function definition the encoder needs.
type Chain interface {
	Query(ctx context.Context, address string, fn schema.Function, args []value.Node) (any, error)
	Submit(ctx context.Context, address string, fn schema.Function, args []value.Node) (SubmissionHandle, error)
	AwaitConfirmation(ctx context.Context, handle SubmissionHandle) (*Confirmation, error)
	// SignerAddress reports the active signer, if any.
	SignerAddress() (string, bool)
	ChainID() string
}
