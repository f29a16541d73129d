package tnetstring

import (
	"bytes"
	"net/netip"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Masker rewrites a sensitive value into a form that can leave the process.
type Masker interface {
	Mask(value []byte) []byte
}

// MaskerFunc adapts a function to Masker.
type MaskerFunc func(value []byte) []byte

// Mask calls f(value).
func (f MaskerFunc) Mask(value []byte) []byte { return f(value) }

// EmailMasker keeps the first byte of the local part and the whole domain:
// alice@example.com becomes a***@example.com.
func EmailMasker() Masker {
	return MaskerFunc(func(value []byte) []byte {
		at := bytes.LastIndexByte(value, '@')
		if at < 1 {
			return stars(len(value))
		}
		out := make([]byte, 0, len(value)+3)
		out = append(out, value[0])
		out = append(out, "***"...)
		return append(out, value[at:]...)
	})
}

// DigitsMasker hides every digit except the last keep, leaving separators in
// place: 4111-1111-1111-1111 becomes ****-****-****-1111. Values with no more
// than keep digits are hidden entirely.
func DigitsMasker(keep int) Masker {
	return MaskerFunc(func(value []byte) []byte {
		total := 0
		for _, c := range value {
			if c >= '0' && c <= '9' {
				total++
			}
		}
		if total <= keep {
			return stars(len(value))
		}
		out := bytes.Clone(value)
		seen := 0
		for i, c := range out {
			if c < '0' || c > '9' {
				continue
			}
			if seen < total-keep {
				out[i] = '*'
			}
			seen++
		}
		return out
	})
}

// IPMasker keeps the network half of an address: 192.168.1.100 becomes
// 192.168.x.x and IPv6 addresses keep their first four groups. Anything that
// does not parse as an address is hidden entirely.
func IPMasker() Masker {
	return MaskerFunc(func(value []byte) []byte {
		addr, err := netip.ParseAddr(string(value))
		if err != nil {
			return stars(len(value))
		}
		if addr.Is4() {
			a := addr.As4()
			out := strconv.AppendUint(nil, uint64(a[0]), 10)
			out = append(out, '.')
			out = strconv.AppendUint(out, uint64(a[1]), 10)
			return append(out, ".x.x"...)
		}
		groups := strings.Split(addr.StringExpanded(), ":")
		return []byte(strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx")
	})
}

// NameMasker keeps the first letter of each word: John Smith becomes J*** S****.
func NameMasker() Masker {
	return MaskerFunc(func(value []byte) []byte {
		words := bytes.FieldsFunc(value, unicode.IsSpace)
		out := make([]byte, 0, len(value))
		for i, w := range words {
			if i > 0 {
				out = append(out, ' ')
			}
			r, size := utf8.DecodeRune(w)
			out = utf8.AppendRune(out, r)
			out = append(out, stars(utf8.RuneCount(w[size:]))...)
		}
		return out
	})
}

func stars(n int) []byte {
	return bytes.Repeat([]byte{'*'}, n)
}

// builtinMaskers returns the maskers registered on every new Processor.
func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskEmail: EmailMasker(),
		MaskCard:  DigitsMasker(4),
		MaskPhone: DigitsMasker(4),
		MaskIP:    IPMasker(),
		MaskName:  NameMasker(),
	}
}
