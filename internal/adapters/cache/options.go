// Package cache memoizes prediction scores for records already scored.
package cache

// Option applies a configuration option to the LRU memo.
type Option func(*lruMemo)

// WithMaxSize sets the maximum number of records kept.
// If maxSize <= 0 the memo is disabled: lookups always miss and stores are dropped.
func WithMaxSize(maxSize int) Option {
	return func(m *lruMemo) {
		m.maxSize = maxSize
	}
}
