package domain

import "errors"

// Pipeline failure taxonomy. Capability wrappers wrap their transport errors
// with one of these sentinels so callers can classify with errors.Is without
// depending on a concrete implementation.
var (
	ErrEmbedding  = errors.New("embedding capability failed")
	ErrRerank     = errors.New("rerank capability failed")
	ErrGeneration = errors.New("generation capability failed")
	ErrResolution = errors.New("section resolution failed")

	ErrEmptyQuery  = errors.New("empty query")
	ErrEmptyCorpus = errors.New("no sections available")
)
