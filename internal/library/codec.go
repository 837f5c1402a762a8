package library

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Manifest separators
const (
	sectionSeparator = "|"
	recordSeparator  = ";"
	fieldSeparator   = ","
	recordFields     = 6
)

// ErrNoRoot is returned when a manifest has no top-level category.
var ErrNoRoot = errors.New("library manifest has no root category")

// Decode unwraps a manifest payload: URL-safe base64 around zlib-compressed text.
func Decode(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty library payload")
	}

	compressed, err := base64.URLEncoding.DecodeString(string(trimmed))
	if err != nil {
		// some mirrors strip the padding
		compressed, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(string(trimmed), "="))
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
	}

	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open zlib stream: %w", err)
	}
	defer r.Close()

	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return text, nil
}

// Encode is the inverse of Decode followed by Parse.
func Encode(lib *Library) ([]byte, error) {
	if lib == nil || lib.Root == nil {
		return nil, ErrNoRoot
	}

	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	if _, err := io.WriteString(w, Format(lib)); err != nil {
		w.Close()
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}

	out := make([]byte, base64.URLEncoding.EncodedLen(compressed.Len()))
	base64.URLEncoding.Encode(out, compressed.Bytes())
	return out, nil
}

// Format renders the library as manifest text.
func Format(lib *Library) string {
	var records []string
	lib.Root.Walk(func(e *Entry) bool {
		records = append(records, FormatRecord(e))
		return true
	})

	credits := make([]string, 0, len(lib.Credits))
	for _, c := range lib.Credits {
		credits = append(credits, c.Name+fieldSeparator+c.Link)
	}

	return strings.Join(records, recordSeparator) + sectionSeparator + strings.Join(credits, recordSeparator)
}

// FormatRecord renders a single entry as a manifest record.
func FormatRecord(e *Entry) string {
	isCategory := "0"
	if e.IsCategory() {
		isCategory = "1"
	}
	return strings.Join([]string{
		strconv.Itoa(e.ID),
		e.Name,
		isCategory,
		strconv.Itoa(e.ParentID),
		strconv.FormatInt(e.Bytes, 10),
		strconv.FormatInt(int64(e.Duration), 10),
	}, fieldSeparator)
}

// Parse builds a library from manifest text. Records whose parent category
// is unknown are dropped and counted in Library.Orphans.
func Parse(text string) (*Library, error) {
	recordsPart, creditsPart, _ := strings.Cut(text, sectionSeparator)

	var entries []*Entry
	categories := make(map[int]*Entry)
	for i, raw := range strings.Split(recordsPart, recordSeparator) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		entry, err := parseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		entries = append(entries, entry)
		if entry.IsCategory() {
			if _, dup := categories[entry.ID]; !dup {
				categories[entry.ID] = entry
			}
		}
	}

	lib := &Library{}
	for _, entry := range entries {
		if lib.Root == nil && entry.IsRoot() {
			lib.Root = entry
			continue
		}
		parent := categories[entry.ParentID]
		if parent == nil || parent == entry || (entry.IsCategory() && categories[entry.ID] != entry) {
			lib.Orphans++
			continue
		}
		parent.Children = append(parent.Children, entry)
	}
	if lib.Root == nil {
		return nil, ErrNoRoot
	}

	lib.Credits = parseCredits(creditsPart)
	return lib, nil
}

func parseRecord(raw string) (*Entry, error) {
	fields := strings.Split(raw, fieldSeparator)
	if len(fields) < recordFields {
		return nil, fmt.Errorf("expected %d fields, got %d", recordFields, len(fields))
	}
	// names may contain the field separator; the numeric fields never do
	n := len(fields)
	name := strings.Join(fields[1:n-4], fieldSeparator)
	numeric := []string{fields[0], fields[n-4], fields[n-3], fields[n-2], fields[n-1]}
	labels := []string{"id", "category flag", "parent id", "bytes", "duration"}

	values := make([]int64, len(numeric))
	for i, field := range numeric {
		v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", labels[i], field, err)
		}
		values[i] = v
	}

	id, isCategory, parentID := int(values[0]), values[1] != 0, int(values[2])
	if isCategory {
		return NewCategory(id, name, parentID), nil
	}
	return NewSound(id, name, parentID, Duration(values[4]), values[3]), nil
}

func parseCredits(raw string) []Credit {
	var credits []Credit
	for _, record := range strings.Split(raw, recordSeparator) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		name, link, _ := strings.Cut(record, fieldSeparator)
		credits = append(credits, Credit{Name: strings.TrimSpace(name), Link: strings.TrimSpace(link)})
	}
	return credits
}
