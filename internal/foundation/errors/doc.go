// Package errors provides the classified error type used across blogbuilder.
//
// Leaf packages return plain or typed errors; the build pipeline and the CLI
// wrap them into a ClassifiedError so they can be routed by category, logged
// at the right level and mapped to a process exit code.
//
//   - ErrorCategory: broad classification (config, permalink, taxonomy, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: category, severity, message, cause and context
//   - ErrorBuilder: fluent constructor
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example:
//
//	err := errors.WrapError(cause, errors.CategoryPermalink, "cannot resolve permalink").
//		WithContext("source", post.SourcePath).
//		Build()
package errors
