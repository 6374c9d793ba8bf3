// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error types.
//
// ActionableError carries the failed operation, the resource involved, and
// fix suggestions; the CLI layer prints the suggestions alongside the error
// message.
package issue
