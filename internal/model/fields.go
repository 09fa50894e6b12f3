package model

import (
	"fmt"
	"math/bits"
	"strings"
)

// Field names one projectable attribute of a Post.
type Field uint16

const (
	FieldSlug Field = 1 << iota
	FieldTitle
	FieldDate
	FieldAuthor
	FieldExcerpt
	FieldContent
	FieldCoverImage
	FieldCoverImageAlt
	FieldCoverImageWidth
	FieldCoverImageHeight
	FieldDraft

	fieldEnd
)

var fieldNames = map[Field]string{
	FieldSlug:             "slug",
	FieldTitle:            "title",
	FieldDate:             "date",
	FieldAuthor:           "author",
	FieldExcerpt:          "excerpt",
	FieldContent:          "content",
	FieldCoverImage:       "coverImage",
	FieldCoverImageAlt:    "coverImageAlt",
	FieldCoverImageWidth:  "coverImageWidth",
	FieldCoverImageHeight: "coverImageHeight",
	FieldDraft:            "draft",
}

func (f Field) String() string {
	name, ok := fieldNames[f]
	if ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", uint16(f))
}

// FieldSet is the set of attributes a caller asks the repository to populate.
type FieldSet uint16

const (
	AllFields FieldSet = FieldSet(fieldEnd - 1)

	// SlugOnly drives static path generation.
	SlugOnly = FieldSet(FieldSlug)

	// ListingFields never includes the body.
	ListingFields = AllFields &^ FieldSet(FieldContent)

	DetailFields = AllFields
)

func Fields(fields ...Field) FieldSet {
	var s FieldSet
	for _, f := range fields {
		s |= FieldSet(f)
	}
	return s & AllFields
}

func (s FieldSet) Has(f Field) bool {
	return s&FieldSet(f) != 0
}

func (s FieldSet) With(fields ...Field) FieldSet {
	return s | Fields(fields...)
}

func (s FieldSet) Without(fields ...Field) FieldSet {
	return s &^ Fields(fields...)
}

func (s FieldSet) Len() int {
	return bits.OnesCount16(uint16(s & AllFields))
}

// Fields lists the members in declaration order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, s.Len())
	for f := FieldSlug; f < fieldEnd; f <<= 1 {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) Names() []string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return names
}

func (s FieldSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// ParseFields builds a FieldSet from front-matter style attribute names.
func ParseFields(names ...string) (FieldSet, error) {
	var s FieldSet
	for _, name := range names {
		f, ok := fieldByName(name)
		if !ok {
			return 0, fmt.Errorf("unknown post field %q", name)
		}
		s |= FieldSet(f)
	}
	return s, nil
}

func fieldByName(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}
