package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// sleeperMock is a testify mock for timeutil.Sleeper.
type sleeperMock struct {
	mock.Mock
}

// newSleeperMock creates a sleeper mock with no default expectations; tests
// call .On("Sleep", mock.Anything).Return() themselves, same convention as
// newRateLimiterMockForTest.
func newSleeperMock(t *testing.T) *sleeperMock {
	t.Helper()
	return new(sleeperMock)
}

func (m *sleeperMock) Sleep(d time.Duration) {
	m.Called(d)
}
