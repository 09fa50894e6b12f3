package markdown

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the front matter syntax by its delimiter.
type Format int

const (
	FormatNone Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}
	return "none"
}

var ErrUnterminatedFrontmatter = errors.New("front matter block is not terminated")

// Frontmatter is the raw metadata block at the top of a content file.
type Frontmatter struct {
	Format Format
	Raw    []byte
}

// Decode unmarshals the block into v. An empty block leaves v untouched.
func (f *Frontmatter) Decode(v any) error {
	if f == nil || len(bytes.TrimSpace(f.Raw)) == 0 {
		return nil
	}
	switch f.Format {
	case FormatYAML:
		return yaml.Unmarshal(f.Raw, v)
	case FormatTOML:
		_, err := toml.Decode(string(f.Raw), v)
		return err
	}
	return nil
}

// Meta decodes the block into a generic map. Never returns a nil map.
func (f *Frontmatter) Meta() (map[string]any, error) {
	meta := make(map[string]any)
	err := f.Decode(&meta)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = make(map[string]any)
	}
	return meta, nil
}

// SplitFrontmatter reads only the leading metadata block from r. The returned
// reader is positioned at the first byte of the body, which is not read. A
// leading byte order mark is dropped.
func SplitFrontmatter(r io.Reader) (*Frontmatter, *bufio.Reader, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	err := skipBOM(br)
	if err != nil {
		return nil, nil, err
	}

	first, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, nil, err
	}

	var delim string
	var format Format
	switch string(first) {
	case "---":
		delim, format = "---", FormatYAML
	case "+++":
		delim, format = "+++", FormatTOML
	default:
		return &Frontmatter{Format: FormatNone}, br, nil
	}

	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	if trimLine(line) != delim {
		return nil, nil, fmt.Errorf("malformed front matter opening line %q", trimLine(line))
	}
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrUnterminatedFrontmatter
	}

	var raw bytes.Buffer
	for {
		line, err := br.ReadString('\n')
		if trimLine(line) == delim {
			return &Frontmatter{Format: format, Raw: raw.Bytes()}, br, nil
		}
		raw.WriteString(line)
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrUnterminatedFrontmatter
		}
		if err != nil {
			return nil, nil, err
		}
	}
}

func trimLine(line string) string {
	return string(bytes.TrimRight([]byte(line), " \t\r\n"))
}

var bom = []byte("\ufeff")

func skipBOM(br *bufio.Reader) error {
	lead, err := br.Peek(len(bom))
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if !bytes.Equal(lead, bom) {
		return nil
	}
	_, err = br.Discard(len(bom))
	return err
}
