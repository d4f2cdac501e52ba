// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Vocabulary Configuration
// =============================================================================

//go:embed vocab.yaml
var defaultVocabYAML []byte

// LiteralEntry maps a lowercased query phrase to a canonical tracker value.
type LiteralEntry struct {
	Match string `yaml:"match"`
	Value string `yaml:"value"`
}

// CompoundEntry maps a lowercased query phrase to a ready-made query clause.
// Compound matches supersede literal matches for their fragment kind.
type CompoundEntry struct {
	Match  string `yaml:"match"`
	Clause string `yaml:"clause"`
}

// StatusVocab holds the two pattern classes for status extraction.
type StatusVocab struct {
	Literal  []LiteralEntry  `yaml:"literal"`
	Compound []CompoundEntry `yaml:"compound"`
}

// IntentVocab holds the trigger phrase groups for intent classification.
// Evaluation priority (create > summarize > compare > analyze) is fixed in
// code, not here; the YAML only supplies the phrases.
type IntentVocab struct {
	Create    []string `yaml:"create"`
	Summarize []string `yaml:"summarize"`
	Compare   []string `yaml:"compare"`
	Analyze   []string `yaml:"analyze"`
}

// Vocabulary is the full set of extraction tables loaded from vocab.yaml.
//
// Slice order within each table is the declared precedence order: the first
// matching entry wins for single-valued fragment kinds. Never reorder these
// at runtime.
//
// # Thread Safety
//
// Safe for concurrent use after initialization (immutable after load).
type Vocabulary struct {
	Status        StatusVocab    `yaml:"status"`
	Priority      []LiteralEntry `yaml:"priority"`
	IssueType     []LiteralEntry `yaml:"issuetype"`
	Intents       IntentVocab    `yaml:"intents"`
	Visualization []LiteralEntry `yaml:"visualization"`
	StopWords     []string       `yaml:"stopwords"`
}

var (
	cachedVocab *Vocabulary
	vocabOnce   sync.Once
	vocabErr    error
)

// LoadVocabulary loads and caches the vocabulary tables from the embedded
// YAML configuration. Returns the cached result on subsequent calls.
//
// # Outputs
//
//   - *Vocabulary: The loaded tables. Never nil on success.
//   - error: Non-nil if YAML parsing fails.
//
// # Thread Safety
//
// Safe for concurrent use (uses sync.Once internally).
func LoadVocabulary() (*Vocabulary, error) {
	vocabOnce.Do(func() {
		var v Vocabulary
		if err := yaml.Unmarshal(defaultVocabYAML, &v); err != nil {
			vocabErr = fmt.Errorf("parsing vocab.yaml: %w", err)
			return
		}
		cachedVocab = &v
		slog.Info("Extraction vocabulary loaded",
			slog.Int("status_literals", len(v.Status.Literal)),
			slog.Int("status_compounds", len(v.Status.Compound)),
			slog.Int("priorities", len(v.Priority)),
			slog.Int("issue_types", len(v.IssueType)),
			slog.Int("stopwords", len(v.StopWords)),
		)
	})
	return cachedVocab, vocabErr
}

// MustLoadVocabulary loads the vocabulary or panics.
//
// The embedded YAML is part of the binary; a parse failure is a build
// defect, not a runtime condition worth degrading around.
func MustLoadVocabulary() *Vocabulary {
	v, err := LoadVocabulary()
	if err != nil {
		panic(err)
	}
	return v
}
