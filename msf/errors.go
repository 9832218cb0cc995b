package msf

import (
	"errors"
	"fmt"

	"github.com/joshuapare/pdbkit/internal/format"
	"github.com/joshuapare/pdbkit/pkg/types"
)

// translate maps low-level format errors onto the public categories: a bad
// magic means the file is not a PDB at all, everything else structural is
// corruption.
func translate(what string, err error) error {
	if errors.Is(err, format.ErrSignatureMismatch) {
		return fmt.Errorf("msf: %s: %v: %w", what, err, types.ErrNotPDB)
	}
	return fmt.Errorf("msf: %s: %v: %w", what, err, types.ErrCorrupt)
}
