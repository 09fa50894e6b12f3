package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/frontmatter"
)

// Renderer turns a post body into HTML. Overrides replace how individual
// node kinds are rendered.
type Renderer interface {
	Render(body []byte, overrides ...Override) ([]byte, error)
}

// Parser keeps one goldmark instance per combination of overrides.
type Parser struct {
	mu        sync.Mutex
	instances map[string]goldmark.Markdown
}

var _ Renderer = (*Parser)(nil)

func NewParser() *Parser {
	p := &Parser{instances: make(map[string]goldmark.Markdown)}
	p.markdown(false, nil)
	return p
}

func options(document bool, nodeRenderers []util.PrioritizedValue) []goldmark.Option {
	opts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithGuessLanguage(true),
				highlighting.WithWrapperRenderer(codeWrapper),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithXHTML(),
			goldmarkhtml.WithUnsafe(),
			renderer.WithNodeRenderers(nodeRenderers...),
		),
	}
	if document {
		opts = append(opts, goldmark.WithExtensions(&frontmatter.Extender{}))
	}
	return opts
}

func (p *Parser) markdown(document bool, overrides []Override) goldmark.Markdown {
	names := make([]string, len(overrides))
	nodeRenderers := make([]util.PrioritizedValue, len(overrides))
	for i, o := range overrides {
		names[i] = o.name
		nodeRenderers[i] = o.value
	}
	key := strings.Join(names, ",")
	if document {
		key = "document:" + key
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	md, ok := p.instances[key]
	if !ok {
		md = goldmark.New(options(document, nodeRenderers)...)
		p.instances[key] = md
	}
	return md
}

// codeWrapper puts highlighted blocks inside the container the stylesheet
// expects.
func codeWrapper(w util.BufWriter, _ highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="code"><div class="code-inner">`)
		return
	}
	_, _ = w.WriteString(`</div></div>`)
}

// Render converts a post body whose front matter has already been split off.
// A leading "---" is a thematic break here, not a metadata block.
func (p *Parser) Render(body []byte, overrides ...Override) ([]byte, error) {
	var buf bytes.Buffer
	err := p.markdown(false, overrides).Convert(body, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderDocument converts a whole markdown file and returns its decoded front
// matter alongside the HTML.
func (p *Parser) RenderDocument(source []byte, overrides ...Override) ([]byte, map[string]any, error) {
	source = bytes.TrimPrefix(source, bom)
	ctx := parser.NewContext()

	var buf bytes.Buffer
	err := p.markdown(true, overrides).Convert(source, &buf, parser.WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	meta := make(map[string]any)
	data := frontmatter.Get(ctx)
	if data != nil {
		err = data.Decode(&meta)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid front matter: %w", err)
		}
	}
	if meta == nil {
		meta = make(map[string]any)
	}
	return buf.Bytes(), meta, nil
}
