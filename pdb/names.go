package pdb

import "golang.org/x/text/encoding/charmap"

// decodeName converts raw on-disk name bytes to a UTF-8 string. Names in
// PDBs produced without /utf-8 are in the producer's local code page; pure
// ASCII (the overwhelmingly common case) passes through untouched and
// anything else is decoded as Windows-1252 so high bytes stay printable
// instead of becoming replacement runes.
func decodeName(raw []byte) string {
	ascii := true
	for _, b := range raw {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
