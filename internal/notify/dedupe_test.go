// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecentSet_EvictsOldest(t *testing.T) {
	s := newRecentSet(2)
	s.Add("a")
	s.Add("b")
	s.Add("a")
	assert.Equal(t, 2, s.Len())

	s.Add("c")
	assert.False(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
	assert.True(t, s.Contains("c"))

	s.Add("d")
	assert.False(t, s.Contains("b"))
	assert.Equal(t, 2, s.Len())
}
