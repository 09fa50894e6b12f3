package repository

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid content configuration")
	ErrMalformedPost = errors.New("malformed post")
	ErrNotFound      = errors.New("post not found")
)

// ConfigurationError is fatal: the content source cannot be read, two
// files resolve to the same slug, or a slug shadows a generated page.
type ConfigurationError struct {
	Path string
	Slug string
	Err  error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Path != "" && e.Slug != "":
		return fmt.Sprintf("content %s (slug %q): %v", e.Path, e.Slug, e.Err)
	case e.Path != "":
		return fmt.Sprintf("content %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("content source: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// MalformedPostError reports a required front matter field that is missing
// or has the wrong type.
type MalformedPostError struct {
	Path   string
	Field  string
	Reason string
	Err    error
}

func (e *MalformedPostError) Error() string {
	msg := "malformed post " + e.Path
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedPostError) Unwrap() error { return e.Err }

func (e *MalformedPostError) Is(target error) bool { return target == ErrMalformedPost }

type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post not found: %s", e.Slug)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
