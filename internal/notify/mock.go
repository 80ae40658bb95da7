package notify

import (
	"context"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, ev Event) ([]types.Notification, error) {
	args := m.Called(ctx, ev)
	if ns, ok := args.Get(0).([]types.Notification); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
