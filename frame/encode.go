package frame

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Supported output formats.
type Format uint8

const (
	PPM Format = iota
	PNG
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PPM:
		return "ppm"
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Get the MIME content type for the format.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	}
	return "image/x-portable-pixmap"
}

// Detect output format from a filename extension.
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ppm":
		return PPM, nil
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return PPM, fmt.Errorf("frame: unsupported image format %q", filepath.Ext(filename))
}

// Convert the buffer to a gamma corrected 8-bit RGBA image.
func ToImage(b *Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(b.W), int(b.H)))
	for r := uint32(0); r < b.H; r++ {
		for x, px := range b.Row(r) {
			img.SetRGBA(x, int(r), color.RGBA{ToByte(px[0]), ToByte(px[1]), ToByte(px[2]), 255})
		}
	}
	return img
}

// Encode buffer using the specified format.
func Encode(w io.Writer, b *Buffer, format Format) error {
	switch format {
	case PPM:
		return WritePPM(w, b)
	case PNG:
		return png.Encode(w, ToImage(b))
	case BMP:
		return bmp.Encode(w, ToImage(b))
	case TIFF:
		return tiff.Encode(w, ToImage(b), &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("frame: unsupported format %s", format)
}

// Write the buffer to a file. The format is selected using the file extension.
func WriteFile(filename string, b *Buffer) error {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err = Encode(f, b, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Generate a downscaled preview of the buffer whose largest dimension does
// not exceed maxDim pixels. Frames that already fit are returned unscaled.
func Thumbnail(b *Buffer, maxDim uint) image.Image {
	img := ToImage(b)
	if uint(b.W) <= maxDim && uint(b.H) <= maxDim {
		return img
	}
	return resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
}

// Write a PNG thumbnail of the buffer.
func WriteThumbnail(w io.Writer, b *Buffer, maxDim uint) error {
	return png.Encode(w, Thumbnail(b, maxDim))
}
