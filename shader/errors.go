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

package shader

// CompilationError reports that the WGSL program was rejected.
type CompilationError struct {
	// Diagnostic is the message of the shader compiler.
	Diagnostic string

	Err error
}

func (e *CompilationError) Error() string {
	return "shader compilation failed: " + e.Diagnostic
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}
