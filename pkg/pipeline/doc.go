// Package pipeline provides a runner converting documents through an ordered list of steps.
//
// Every step declares the data types it can consume. The runner walks its step list once, in order,
// and applies a step only when the current data type of the work item is one of the step's supported
// types. A step may change the data type of the item, so the next steps are matched against the type
// produced so far. This allows steps such as "pdf to xml" and "xml to tei" to be declared
// independently and composed into pipelines of any length without a central router.
//
// A conversion where no step applied fails with an UnsupportedDataTypeError. A conversion where at
// least one step applied succeeds, even if the step left the item unchanged.
//
// Pipelines resolve their ordered step list from configuration. A ChainedPipeline concatenates the
// step lists of several pipelines, and a Registry maps pipeline names to factories so configuration
// can select pipelines by name.
//
// The runner keeps no mutable state across conversions. Independent items can be converted
// concurrently with ConvertAll, as long as the steps themselves are reentrant.
package pipeline
