// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xl1

import (
	"encoding/hex"
	"errors"
)

var (
	errInvalidLength = errors.New("invalid length")
	errInvalidPrefix = errors.New("invalid prefix")
)

// decodeFixedHex fills out from s, which must hold exactly len(out) bytes in
// hex with or without a 0x prefix.
func decodeFixedHex(s string, out []byte) error {
	switch len(s) {
	case len(out) * 2:
	case len(out)*2 + 2:
		if s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
			return errInvalidPrefix
		}
		s = s[2:]
	default:
		return errInvalidLength
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}

func encodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
