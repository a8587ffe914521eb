// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler for asserting on structured log output
//	- Workbook and CSV fixture writers shaped like the measurement input
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteWorkbook(t, t.TempDir(), "values.xlsx", sheet)
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
