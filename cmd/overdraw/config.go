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

package main

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"seehuhn.de/go/overdraw"
)

// fileConfig is the layout of the -config file:
//
//	[pipeline]
//	max_dimension = 8192
//	[pipeline.shader]
//	threshold = 2
//
//	[frame]
//	width = 640
//	height = 480
//	frames = 60
//	fps = 30
//	scene = "text/matrix"
//	output = "overdraw.png"
type fileConfig struct {
	Pipeline overdraw.Config `toml:"pipeline"`
	Frame    frameConfig     `toml:"frame"`
}

type frameConfig struct {
	Width  int      `toml:"width"`
	Height int      `toml:"height"`
	Frames int      `toml:"frames"` // 0 runs until interrupted
	FPS    int      `toml:"fps"`
	Scene  string   `toml:"scene"`
	Output string   `toml:"output"`
	Resize []string `toml:"resize"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Pipeline: overdraw.DefaultConfig(),
		Frame: frameConfig{
			Frames: 1,
			FPS:    60,
			Scene:  "text/matrix",
			Output: "overdraw.png",
		},
	}
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return fileConfig{}, fmt.Errorf("%s: unknown key %s", path, keys[0])
	}
	if err := cfg.Pipeline.Validate(); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Frame.Frames < 0 {
		return fileConfig{}, fmt.Errorf("%s: negative frame count %d", path, cfg.Frame.Frames)
	}
	return cfg, nil
}

var errSize = errors.New("size must have the form WIDTHxHEIGHT")

// parseSize parses "640x480".
func parseSize(s string) (image.Point, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("%q: %w", s, errSize)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return image.Point{}, fmt.Errorf("%q: %w", s, errSize)
	}
	return image.Pt(w, h), nil
}

// parseSizes parses a comma separated list of sizes.
func parseSizes(list []string) ([]image.Point, error) {
	var sizes []image.Point
	for _, item := range list {
		for _, s := range strings.Split(item, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			p, err := parseSize(s)
			if err != nil {
				return nil, err
			}
			sizes = append(sizes, p)
		}
	}
	return sizes, nil
}
