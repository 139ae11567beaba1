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
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidSize is wrapped by allocation errors for frames with a
	// zero or negative dimension.
	ErrInvalidSize = errors.New("invalid frame size")

	// ErrTooLarge is wrapped by allocation errors for frames exceeding
	// the configured maximum.
	ErrTooLarge = errors.New("frame too large")
)

// AllocationError reports that the offscreen surfaces for a frame could
// not be created.
type AllocationError struct {
	Size image.Point
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("cannot allocate %dx%d surfaces: %v", e.Size.X, e.Size.Y, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}
