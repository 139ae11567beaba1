// seehuhn.de/go/overdraw - visualise overdraw of 2D scenes
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package overdraw

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	tg, err := Allocate(image.Pt(7, 3))
	require.NoError(t, err)
	defer tg.Release()

	assert.Equal(t, image.Pt(7, 3), tg.Size())
	assert.Equal(t, tg.Color.Bounds(), tg.Counter.Bounds())
	assert.Len(t, tg.Color.Pix, 7*3*4)
	assert.Len(t, tg.Counter.Pix, 7*3)
	for _, v := range tg.Color.Pix {
		require.Zero(t, v)
	}

	in := tg.Inputs()
	assert.Same(t, tg.Color, in.Color)
	assert.Same(t, tg.Counter, in.Counter)
}

func TestAllocateErrors(t *testing.T) {
	tests := []struct {
		size image.Point
		want error
	}{
		{image.Pt(0, 0), ErrInvalidSize},
		{image.Pt(-1, 5), ErrInvalidSize},
		{image.Pt(5, 0), ErrInvalidSize},
		{image.Pt(DefaultMaxDimension+1, 1), ErrTooLarge},
		{image.Pt(1, DefaultMaxDimension+1), ErrTooLarge},
	}
	for _, tc := range tests {
		tg, err := Allocate(tc.size)
		assert.Nil(t, tg)
		var aErr *AllocationError
		if assert.ErrorAs(t, err, &aErr) {
			assert.Equal(t, tc.size, aErr.Size)
		}
		assert.ErrorIs(t, err, tc.want)
	}

	assert.ErrorIs(t, checkSize(image.Pt(math.MaxInt/2, 3), math.MaxInt), ErrTooLarge)
}

func TestRelease(t *testing.T) {
	var r recycler
	tg, err := allocate(image.Pt(3, 3), DefaultMaxDimension, &r)
	require.NoError(t, err)
	tg.Color.Pix[0] = 99
	tg.Counter.Pix[0] = 7
	col := tg.Color

	tg.Release()
	tg.Release()
	assert.Nil(t, tg.Color)

	// a different size does not take the cached buffers
	other, err := allocate(image.Pt(4, 3), DefaultMaxDimension, &r)
	require.NoError(t, err)
	assert.NotSame(t, col, other.Color)

	again, err := allocate(image.Pt(3, 3), DefaultMaxDimension, &r)
	require.NoError(t, err)
	assert.Same(t, col, again.Color)
	assert.Zero(t, again.Color.Pix[0])
	assert.Zero(t, again.Counter.Pix[0])

	var nilTargets *Targets
	nilTargets.Release()
}
