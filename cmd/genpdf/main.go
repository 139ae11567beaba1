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

// Command genpdf writes the overdraw scenes as PDF files, and optionally
// renders them with Ghostscript, for comparison with the raster output.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/overdraw/scene"
)

func main() {
	outDir := flag.String("o", "testdata/reference", "output directory")
	only := flag.String("scene", "", "only export this scene")
	render := flag.Bool("png", false, "render PNG files with Ghostscript")
	flag.Parse()

	if err := run(*outDir, *only, *render); err != nil {
		fmt.Fprintln(os.Stderr, "genpdf:", err)
		os.Exit(1)
	}
}

func run(outDir, only string, render bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	names := scene.Names()
	if only != "" {
		names = slices.DeleteFunc(names, func(n string) bool {
			return n != only && !strings.HasSuffix(n, "/"+only)
		})
		if len(names) == 0 {
			return fmt.Errorf("unknown scene %q", only)
		}
	}

	for _, name := range names {
		s, _ := scene.Lookup(name)
		base := strings.ReplaceAll(name, "/", "_")
		pdfPath := filepath.Join(outDir, base+".pdf")
		if err := generatePDF(s, pdfPath); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if render {
			if err := renderPNG(pdfPath, filepath.Join(outDir, base+".png")); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

func generatePDF(s scene.Case, pdfPath string) error {
	// 1 point = 1 pixel at 72 DPI
	w, h := float64(s.Width), float64(s.Height)
	paper := &pdf.Rectangle{URx: w, URy: h}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// transparent pixels of the overdraw view show as black
	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, w, h)
	page.Fill()

	s.Render(newPDFCanvas(page, w, h), s.Size())

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	// -dGraphicsAlphaBits=4: 4x supersampling for anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
