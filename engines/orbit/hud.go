// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package orbit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// HUDFontFile is the font file name looked up in the asset directory.
const HUDFontFile = "hud.ttf"

// loadHUDFont returns the HUD font source: the asset directory's font if
// present, the Go Regular font otherwise.
func loadHUDFont(assetDir string) (*text.FontSource, error) {
	if assetDir != "" {
		path := filepath.Join(assetDir, HUDFontFile)
		_, err := os.Stat(path)
		switch {
		case err == nil:
			src, err := text.NewFontSourceFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("orbit: load %s: %w", path, err)
			}
			return src, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("orbit: stat %s: %w", path, err)
		}
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("orbit: load built-in font: %w", err)
	}
	return src, nil
}
