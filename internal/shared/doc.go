// Package shared holds helpers used across the complaint report packages.
//
// The testutil subpackage provides:
//
//   - LogCapture and NewTestLogger for asserting on structured logs
//   - BuildWorkbook and the scenario fixtures for building in-memory xlsx
//     inputs
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    complaints := testutil.ScenarioComplaints(t)
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
