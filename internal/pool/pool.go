// Package pool provides sync.Pool backed buffers for the preview renderer,
// which rebuilds its whole frame on every update.
package pool

import (
	"strings"
	"sync"
)

// defaultRowCap fits a typical terminal row.
const defaultRowCap = 256

var stringBuilderPool = sync.Pool{
	New: func() any { return new(strings.Builder) },
}

// GetStringBuilder returns an empty builder.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	if sb == nil {
		return
	}
	sb.Reset()
	stringBuilderPool.Put(sb)
}

var runeSlicePool = sync.Pool{
	New: func() any {
		s := make([]rune, 0, defaultRowCap)
		return &s
	},
}

// GetRuneSlice returns a slice of n spaces.
func GetRuneSlice(n int) *[]rune {
	p := runeSlicePool.Get().(*[]rune)
	s := (*p)[:0]
	for range n {
		s = append(s, ' ')
	}
	*p = s
	return p
}

// PutRuneSlice returns p to the pool.
func PutRuneSlice(p *[]rune) {
	if p == nil {
		return
	}
	*p = (*p)[:0]
	runeSlicePool.Put(p)
}
