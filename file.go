package reader

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

type FileType string

const JPG = FileType("jpg")
const PNG = FileType("png")
const PDF = FileType("pdf")
const TIFF = FileType("tiff")
const BMP = FileType("bmp")
const WEBP = FileType("webp")

// JSON files hold already recognized fragments.
const JSON = FileType("json")

type File struct {
	Bytes       []byte
	ContentType FileType
	Checksum    string
}

func checksum(bs []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(bs))
}

func NewFile(bs []byte, contentType FileType) *File {
	return &File{
		Bytes:       bs,
		ContentType: contentType,
		Checksum:    checksum(bs),
	}
}

func NewJPG(bs []byte) *File {
	return NewFile(bs, JPG)
}

func NewPNG(bs []byte) *File {
	return NewFile(bs, PNG)
}

func NewPDF(bs []byte) *File {
	return NewFile(bs, PDF)
}

// DetectFile sniffs the content type of bs, falling back to the extension of name.
func DetectFile(name string, bs []byte) (*File, error) {
	switch http.DetectContentType(bs) {
	case "image/jpeg":
		return NewFile(bs, JPG), nil
	case "image/png":
		return NewFile(bs, PNG), nil
	case "application/pdf":
		return NewFile(bs, PDF), nil
	case "image/bmp":
		return NewFile(bs, BMP), nil
	case "image/webp":
		return NewFile(bs, WEBP), nil
	}
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."); ext {
	case "tif", "tiff":
		return NewFile(bs, TIFF), nil
	case "json":
		return NewFile(bs, JSON), nil
	case "jpg", "jpeg", "png", "pdf", "bmp", "webp":
		return NewFile(bs, FileType(strings.Replace(ext, "jpeg", "jpg", 1))), nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", name)
	}
}

func (f *File) IsImage() bool {
	switch f.ContentType {
	case JPG, PNG, TIFF, BMP, WEBP:
		return true
	}
	return false
}
