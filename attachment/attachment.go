/*
Package attachment validates and encodes the optional supporting document a
leave request may carry.

PURPOSE:
  Enforce the intake rules before anything touches the draft:
  1. Hard size cap, checked before any decoding work
  2. Content sniffing (the client-declared MIME type is not trusted)
  3. Base64 encoding of the accepted payload

FORMATS:
  JPEG, PNG, GIF, and PDF are accepted. HEIC/HEIF is detected by its ftyp
  brand and rejected with a distinct error: conversion to JPEG happens on
  the client before upload, so a HEIC arriving here means that step was
  skipped. Everything else is an unsupported format.
*/
package attachment

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/Vinoisasian/jingshin-leave-public/leave"
)

// MaxSize is the attachment cap: 10MB, matching the form's client-side
// check.
const MaxSize int64 = 10 << 20

var acceptedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

// heicBrands are the ftyp brands that mark HEIC/HEIF containers.
var heicBrands = [][]byte{
	[]byte("heic"), []byte("heix"), []byte("hevc"),
	[]byte("heim"), []byte("heis"), []byte("mif1"),
}

// Read validates the file and returns a draft-ready attachment. The size
// cap is enforced while reading, before the payload is sniffed or encoded.
func Read(filename string, r io.Reader, declaredSize int64) (*leave.Attachment, error) {
	if declaredSize > MaxSize {
		return nil, &leave.AttachmentSizeError{Size: declaredSize, Limit: MaxSize}
	}

	// Read one byte past the cap so an undeclared oversize stream is still
	// caught.
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", leave.ErrAttachmentConversion, err)
	}
	if int64(len(data)) > MaxSize {
		return nil, &leave.AttachmentSizeError{Size: int64(len(data)), Limit: MaxSize}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", leave.ErrAttachmentConversion)
	}

	contentType, err := sniff(data)
	if err != nil {
		return nil, err
	}

	return &leave.Attachment{
		Filename:    filename,
		ContentType: contentType,
		Data:        base64.StdEncoding.EncodeToString(data),
		Size:        int64(len(data)),
	}, nil
}

// sniff determines the real content type and rejects anything the approval
// backend cannot take.
func sniff(data []byte) (string, error) {
	if isHEIC(data) {
		return "", fmt.Errorf("%w: HEIC must be converted to JPEG before upload", leave.ErrAttachmentConversion)
	}

	contentType := http.DetectContentType(data)
	if !acceptedTypes[contentType] {
		return "", fmt.Errorf("%w: %s", leave.ErrAttachmentConversion, contentType)
	}
	return contentType, nil
}

// isHEIC checks the ISO-BMFF ftyp box for HEIC/HEIF brands.
// Layout: [4-byte size]["ftyp"][4-byte major brand][...].
func isHEIC(data []byte) bool {
	if len(data) < 12 || !bytes.Equal(data[4:8], []byte("ftyp")) {
		return false
	}
	brand := data[8:12]
	for _, b := range heicBrands {
		if bytes.Equal(brand, b) {
			return true
		}
	}
	return false
}
