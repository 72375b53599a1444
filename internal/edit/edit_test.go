// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdit(t *testing.T) {
	b := NewBuffer([]byte("0123456789"))
	b.Insert(8, ",7½,")
	b.Replace(9, 10, "the-end")
	b.Insert(10, "!")
	b.Insert(4, "3.14,")
	b.Insert(4, "π,")
	b.Insert(4, "3.15,")
	b.Replace(3, 4, "three,")

	assert.Equal(t, 7, b.Len())
	assert.Equal(t, "012three,3.14,π,3.15,4567,7½,8the-end!", b.String())
}

func TestEditNoChanges(t *testing.T) {
	data := []byte("base: '/x/'\n")
	b := NewBuffer(data)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, data, b.Bytes())
}

func TestEditDelete(t *testing.T) {
	b := NewBuffer([]byte("hello, world"))
	b.Delete(5, 12)
	assert.Equal(t, "hello", b.String())
}

func TestEditOverlapPanics(t *testing.T) {
	b := NewBuffer([]byte("0123456789"))
	b.Replace(2, 5, "x")
	b.Replace(4, 6, "y")
	assert.Panics(t, func() { _ = b.Bytes() })
}

func TestEditInvalidPositionPanics(t *testing.T) {
	b := NewBuffer([]byte("abc"))
	assert.Panics(t, func() { b.Insert(4, "x") })
	assert.Panics(t, func() { b.Replace(2, 1, "x") })
	assert.Panics(t, func() { b.Delete(-1, 1) })
}
