package main

import (
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
)

// resolveMessage treats arg as a file path when a regular file exists there,
// and as the literal message otherwise. File contents are hidden byte for
// byte; nfc only applies to literal text.
func resolveMessage(arg string, nfc bool) ([]byte, error) {
	if info, err := os.Stat(arg); err == nil && info.Mode().IsRegular() {
		b, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read message file %s: %w", arg, err)
		}
		return b, nil
	}
	if nfc {
		return norm.NFC.Bytes([]byte(arg)), nil
	}
	return []byte(arg), nil
}
