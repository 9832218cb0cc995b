package pdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pdbkit/pkg/types"
)

func TestDecodeName(t *testing.T) {
	require.Equal(t, "c:\\src\\main.c", decodeName([]byte("c:\\src\\main.c")))
	require.Equal(t, "", decodeName(nil))
	// 0xE9 is é in Windows-1252.
	require.Equal(t, "caf\u00e9.c", decodeName([]byte{'c', 'a', 'f', 0xE9, '.', 'c'}))
}

func TestNameTableBadID(t *testing.T) {
	b := newDbiBuilder()
	b.ec = buildECRegion([]byte("\x00x\x00"))
	s := mustParse(t, b, defaultSource())

	_, err := s.ECNames().StringForID(99)
	require.ErrorIs(t, err, types.ErrCorrupt)
}
