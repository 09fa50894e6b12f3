package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateFormats are tried in order for string dates.
var dateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// header holds every known front-matter key, validated regardless of which
// fields the caller projects.
type header struct {
	title            string
	date             time.Time
	draft            bool
	author           string
	excerpt          string
	coverImage       string
	coverImageAlt    string
	coverImageWidth  int
	coverImageHeight int
}

func parseHeader(path string, meta map[string]any) (*header, error) {
	h := &header{}
	var err error

	h.title, err = optionalString(path, meta, "title")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(h.title) == "" {
		return nil, &MalformedPostError{Path: path, Field: "title", Reason: "required"}
	}

	raw, ok := meta["date"]
	if !ok || raw == nil {
		return nil, &MalformedPostError{Path: path, Field: "date", Reason: "required"}
	}
	h.date, err = parseDate(raw)
	if err != nil {
		return nil, &MalformedPostError{Path: path, Field: "date", Err: err}
	}

	if h.draft, err = optionalBool(path, meta, "draft"); err != nil {
		return nil, err
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"author", &h.author},
		{"excerpt", &h.excerpt},
		{"coverImage", &h.coverImage},
		{"coverImageAlt", &h.coverImageAlt},
	}
	for _, f := range strs {
		if *f.dst, err = optionalString(path, meta, f.key); err != nil {
			return nil, err
		}
	}

	if h.coverImageWidth, err = optionalInt(path, meta, "coverImageWidth"); err != nil {
		return nil, err
	}
	if h.coverImageHeight, err = optionalInt(path, meta, "coverImageHeight"); err != nil {
		return nil, err
	}

	return h, nil
}

func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateFormats {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", v)
	}
	return time.Time{}, fmt.Errorf("unsupported date type %T", value)
}

func optionalString(path string, meta map[string]any, key string) (string, error) {
	raw, ok := meta[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &MalformedPostError{Path: path, Field: key, Reason: fmt.Sprintf("expected a string, got %T", raw)}
	}
	return s, nil
}

func optionalBool(path string, meta map[string]any, key string) (bool, error) {
	raw, ok := meta[key]
	if !ok || raw == nil {
		return false, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b, nil
		}
	}
	return false, &MalformedPostError{Path: path, Field: key, Reason: fmt.Sprintf("expected a boolean, got %v", raw)}
}

func optionalInt(path string, meta map[string]any, key string) (int, error) {
	raw, ok := meta[key]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n, nil
		}
	}
	return 0, &MalformedPostError{Path: path, Field: key, Reason: fmt.Sprintf("expected an integer, got %v", raw)}
}
