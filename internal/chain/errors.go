package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Error is a collaborator failure with a one-line summary for the log.
type Error struct {
	Op    string
	Short string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Op + ": " + e.Short
	}
	return e.Op + ": " + e.cause.Error()
}

func (e *Error) ShortMessage() string { return e.Short }
func (e *Error) Unwrap() error        { return e.cause }
func (e *Error) Cause() error         { return e.cause }

func newError(op, short string, cause error) *Error {
	return &Error{Op: op, Short: short, cause: cause}
}

// dataError matches JSON-RPC errors that carry revert data.
type dataError interface {
	error
	ErrorData() interface{}
}

// classify wraps a node error, decoding a revert reason when one is present.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var de dataError
	if errors.As(err, &de) {
		if reason, ok := revertReason(de.ErrorData()); ok {
			return newError(op, "execution reverted: "+reason, err)
		}
	}
	msg := err.Error()
	if i := strings.Index(msg, "\n"); i >= 0 {
		msg = msg[:i]
	}
	return newError(op, msg, err)
}

func revertReason(data interface{}) (string, bool) {
	hexData, ok := data.(string)
	if !ok {
		return "", false
	}
	raw, err := hexutil.Decode(hexData)
	if err != nil {
		return "", false
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}
	return reason, true
}
