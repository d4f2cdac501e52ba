// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides the text-generation collaborator used by the
// assistant's model-assisted paths.
package llm

import "context"

// CompletionOptions are the per-call generation parameters.
type CompletionOptions struct {
	// MaxTokens caps the completion length. Zero means the server default.
	MaxTokens int

	// Temperature controls randomness. Lower = more deterministic.
	Temperature float64

	// Stop sequences terminate generation when emitted.
	Stop []string
}

// TextGenerator is the contract every inference backend satisfies.
//
// # Description
//
//	Callers must check Available before calling Complete; Complete on an
//	unavailable generator returns an error rather than blocking. The
//	interface is deliberately small: the assistant's core never needs
//	chat-message structure, only prompt-in text-out.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Availability probing is
// initialize-once/read-many: once a generator reports available, the handle
// is treated as a read-only capability.
type TextGenerator interface {
	// Available reports whether the backend can serve completions.
	Available() bool

	// Complete generates text for the prompt. Timeout enforcement lives
	// here, not in callers: the core performs no retry and no deadline
	// logic of its own.
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}
