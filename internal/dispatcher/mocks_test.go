package dispatcher

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

type MockChain struct {
	mock.Mock
}

func (m *MockChain) Query(ctx context.Context, address string, fn schema.Function, args []value.Node) (any, error) {
	ret := m.Called(ctx, address, fn, args)
	return ret.Get(0), ret.Error(1)
}

func (m *MockChain) Submit(ctx context.Context, address string, fn schema.Function, args []value.Node) (SubmissionHandle, error) {
	ret := m.Called(ctx, address, fn, args)
	return ret.Get(0).(SubmissionHandle), ret.Error(1)
}

func (m *MockChain) AwaitConfirmation(ctx context.Context, handle SubmissionHandle) (*Confirmation, error) {
	ret := m.Called(ctx, handle)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*Confirmation), ret.Error(1)
}

func (m *MockChain) SignerAddress() (string, bool) {
	ret := m.Called()
	return ret.String(0), ret.Bool(1)
}

func (m *MockChain) ChainID() string {
	return m.Called().String(0)
}

type shortError struct {
	short string
	long  string
}

func (e *shortError) Error() string        { return e.long }
func (e *shortError) ShortMessage() string { return e.short }
