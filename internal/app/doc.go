// Package app wires a single analysis run together.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, a config file, .env and CORRELATION_* variables
//	2. Layer command-line options on top and validate
//	3. Initialize logging and, when enabled, tracing and metrics
//	4. Validate the input file and output directory
//	5. Create the analysis service
//
// # Usage
//
//	application, err := app.NewApplication(app.Options{Input: "Values.xlsx"})
//	if err != nil {
//	    return err
//	}
//	result, err := application.Run(ctx)
//
// # Shutdown
//
// SIGINT and SIGTERM cancel the run. Spans are flushed to the trace file and
// the metrics file is written after every run, successful or not.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The app does not
// call os.Exit(), leaving the exit code to the main function.
package app
