// Package model provides the data structures shared by the pipeline package and its hooks.
// It defines the work item flowing through a runner, the step contract every conversion
// step implements, and the hook interface used to observe a runner.
package model
