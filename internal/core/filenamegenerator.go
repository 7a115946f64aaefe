package core

import (
	"crypto/rand"
	"encoding/hex"
	"path/filepath"
	"strings"
)

const filenameRandomBytes = 16

// GenerateFilename returns 32 hex characters followed by the extension of
// originalName, taken verbatim including the leading dot.
func GenerateFilename(originalName string) (string, error) {
	var key [filenameRandomBytes]byte
	if _, err := rand.Read(key[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(key[:]) + extension(originalName), nil
}

// extension is filepath.Ext except that dotfiles such as ".hidden" and the
// names "." and ".." have no extension.
func extension(name string) string {
	base := filepath.Base(name)
	if base == ".." || strings.LastIndexByte(base, '.') <= 0 {
		return ""
	}
	return filepath.Ext(base)
}
