// Package shared holds helpers used across the custetl packages that belong to
// no single stage.
//
// The testutil subpackage provides a buffered slog handler for asserting on log
// output:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    cleaner := dataprocessing.NewCleaner(states, logger)
//	    // ...
//	    assert.True(t, handler.ContainsMessage("Customer table cleaned"))
//	}
package shared
