package sniffer

import (
	"bytes"
	"net/http"
	"strings"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEDOC  = "application/msword"
	MIMERTF  = "application/rtf"
	MIMEZIP  = "application/zip"
	MIMEText = "text/plain; charset=utf-8"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
	rtfMagic = []byte(`{\rtf`)
)

// DetectDocument picks the content type of a résumé upload from its leading
// bytes. Zip containers and unrecognised data fall back to the declared type
// when one was sent.
func DetectDocument(data []byte, declared string) string {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	declared = MimeType(declared)

	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return MIMEPDF
	case bytes.HasPrefix(head, oleMagic):
		return MIMEDOC
	case bytes.HasPrefix(head, rtfMagic):
		return MIMERTF
	case bytes.HasPrefix(head, zipMagic):
		if declared != "" && declared != "application/octet-stream" {
			return declared
		}
		if bytes.Contains(data, []byte("word/")) {
			return MIMEDOCX
		}
		return MIMEZIP
	}

	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(head)
}

// MimeType strips parameters from a Content-Type value.
func MimeType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
