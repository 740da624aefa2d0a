// Package input reads the address list file. Input files come from
// spreadsheets and old editors, so decoding falls back from UTF-8 through
// Windows-1251 to Latin-1 rather than failing the whole run on one legacy
// file.
package input

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Houeta/transitlink/internal/models"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadEntries loads and parses the address list at path. It returns the
// parsed entries and the name of the encoding that was used to decode the
// file. Blank lines and lines starting with '#' are skipped.
func ReadEntries(path string) ([]models.AddressEntry, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input file: %w", err)
	}

	text, encoding := decode(data)

	var entries []models.AddressEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, ParseLine(line))
	}

	return entries, encoding, nil
}

// ParseLine parses one input line. Two formats are supported:
//
//	"Address text"              -> label = target = the whole line
//	"Address text | lat,lon"    -> label = left side, override = right side
//
// When the part after '|' is not a coordinate literal the whole raw line is
// used as both label and target. A line that is itself a coordinate literal
// also becomes an override and is never geocoded.
func ParseLine(raw string) models.AddressEntry {
	raw = strings.TrimSpace(raw)
	label, target := raw, raw

	if left, right, found := strings.Cut(raw, "|"); found {
		left = strings.TrimSpace(left)
		right = strings.TrimSpace(right)
		if models.IsCoords(right) {
			label, target = left, right
		}
	}

	return models.AddressEntry{
		Label:    label,
		Target:   target,
		Override: models.ParseCoords(target),
	}
}

// decode picks the first encoding that cleanly represents the file:
// UTF-8 (with or without BOM), then Windows-1251, then Latin-1 as the
// last-resort decoding that cannot fail.
func decode(data []byte) (string, string) {
	if bytes.HasPrefix(data, utf8BOM) {
		trimmed := bytes.TrimPrefix(data, utf8BOM)
		if utf8.Valid(trimmed) {
			return string(trimmed), "utf-8-sig"
		}
		data = trimmed
	}

	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	if decoded, err := charmap.Windows1251.NewDecoder().Bytes(data); err == nil &&
		!bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded), "windows-1251"
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded), "latin-1"
}
