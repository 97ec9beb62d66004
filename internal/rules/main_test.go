package rules

import (
	"testing"

	"go.uber.org/goleak"
)

// MatchAll fans out over errgroup workers; every test must leave none behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
