// SPDX-License-Identifier: MPL-2.0

package regedit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Kind identifies the registry value type.
type Kind int

const (
	KindString Kind = iota
	KindDWord
	KindBinary
	KindExpandString
	KindMultiString
	// KindDelete removes the value when the patch is imported.
	KindDelete
)

// ErrInvalidDWord is returned by DWordFromString for text that is not a
// decimal or 0x-prefixed hexadecimal 32-bit integer.
var ErrInvalidDWord = errors.New("invalid dword value")

// Value is a typed registry value. The zero Value is an empty string.
type Value struct {
	kind  Kind
	str   string
	num   uint32
	bytes []byte
	multi []string
}

// String returns a REG_SZ value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// DWord returns a REG_DWORD value.
func DWord(n uint32) Value { return Value{kind: KindDWord, num: n} }

// DWordFromString parses decimal ("255") or hexadecimal ("0xff") text.
func DWordFromString(s string) (Value, error) {
	s = strings.TrimSpace(s)
	var (
		n   uint64
		err error
	)
	if hexDigits, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		n, err = strconv.ParseUint(hexDigits, 16, 32)
	} else {
		n, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return Value{}, fmt.Errorf("%w %q", ErrInvalidDWord, s)
	}
	return DWord(uint32(n)), nil
}

// Binary returns a REG_BINARY value rendered as hex bytes.
func Binary(b []byte) Value { return Value{kind: KindBinary, bytes: b} }

// ExpandString returns a REG_EXPAND_SZ value. Windows expands
// %VAR% references in it when the value is read.
func ExpandString(s string) Value { return Value{kind: KindExpandString, str: s} }

// MultiString returns a REG_MULTI_SZ value holding ss in order.
func MultiString(ss ...string) Value { return Value{kind: KindMultiString, multi: ss} }

// Delete is the sentinel value that removes a registry value.
func Delete() Value { return Value{kind: KindDelete} }

// Kind returns the value type.
func (v Value) Kind() Kind { return v.kind }

// Format renders the value as it appears to the right of "=" in a patch.
func (v Value) Format() string {
	switch v.kind {
	case KindDWord:
		return fmt.Sprintf("dword:%08x", v.num)
	case KindBinary:
		return "hex:" + hexList(v.bytes)
	case KindExpandString:
		return "hex(2):" + hexList(utf16z(v.str))
	case KindMultiString:
		var buf []byte
		for _, s := range v.multi {
			buf = append(buf, utf16z(s)...)
		}
		buf = append(buf, 0, 0)
		return "hex(7):" + hexList(buf)
	case KindDelete:
		return "-"
	default:
		return quote(v.str)
	}
}

// quote escapes backslashes and double quotes and wraps s in quotes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// utf16z encodes s as UTF-16LE followed by a NUL code unit.
func utf16z(s string) []byte {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		// Only invalid UTF-8 fails; fall back to the replacement-encoded form.
		out, _ = enc.Bytes([]byte(strings.ToValidUTF8(s, "�")))
	}
	return append(out, 0, 0)
}

func hexList(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(hex.EncodeToString([]byte{c}))
	}
	return sb.String()
}
