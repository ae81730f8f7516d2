package usecase_test

import (
	"time"

	"github.com/zentasks/zentasks/internal/domain"
	"github.com/zentasks/zentasks/internal/testutil"
)

var testNow = time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC) // a Wednesday

func newClock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: testNow}
}

func loggedIn() *testutil.MockSessionStore {
	return &testutil.MockSessionStore{Session: &domain.Session{
		User:  &domain.User{ID: "u-1", Username: "alice", Email: "alice@example.com"},
		Token: "opaque-token",
	}}
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
