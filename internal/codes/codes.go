// Package codes renders barcode and QR PNG files for catalog items.
package codes

import (
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
)

const (
	barcodeWidth  = 300
	barcodeHeight = 100
	qrSize        = 200
)

type Generator struct {
	dir string
}

// NewGenerator creates the output directory if needed.
func NewGenerator(dir string) (*Generator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create codes dir: %w", err)
	}
	return &Generator{dir: dir}, nil
}

// Barcode renders a Code 128 image for the item and returns the stored
// filename.
func (g *Generator) Barcode(itemID uuid.UUID, text string) (string, error) {
	bc, err := code128.Encode(text)
	if err != nil {
		return "", fmt.Errorf("encode barcode: %w", err)
	}
	scaled, err := barcode.Scale(bc, barcodeWidth, barcodeHeight)
	if err != nil {
		return "", fmt.Errorf("scale barcode: %w", err)
	}
	name := fmt.Sprintf("barcode_%s.png", itemID)
	if err := g.writePNG(name, scaled); err != nil {
		return "", err
	}
	return name, nil
}

// QR renders a QR image for the item and returns the stored filename.
func (g *Generator) QR(itemID uuid.UUID, text string) (string, error) {
	code, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	scaled, err := barcode.Scale(code, qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("scale qr: %w", err)
	}
	name := fmt.Sprintf("qr_%s.png", itemID)
	if err := g.writePNG(name, scaled); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (g *Generator) Remove(filename string) error {
	// Base strips any path components a stored value could carry.
	err := os.Remove(filepath.Join(g.dir, filepath.Base(filename)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (g *Generator) writePNG(name string, img barcode.Barcode) error {
	f, err := os.Create(filepath.Join(g.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return f.Close()
}
