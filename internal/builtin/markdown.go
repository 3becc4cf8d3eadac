package builtin

import (
	"bytes"
	"context"

	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

const (
	hardWrapsFlag = "markdown-hard-wraps"
	hardWrapsKey  = "markdown.hard_wraps"
)

// MarkdownStep converts markdown to an HTML fragment.
type MarkdownStep struct {
	md goldmark.Markdown
}

func NewMarkdownStep(hardWraps bool) *MarkdownStep {
	opts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if hardWraps {
		opts = append(opts, goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()))
	} else {
		opts = append(opts, goldmark.WithRendererOptions(html.WithXHTML()))
	}

	return &MarkdownStep{md: goldmark.New(opts...)}
}

func (s *MarkdownStep) String() string {
	return "markdown"
}

func (s *MarkdownStep) SupportedTypes() model.TypeSet {
	return model.NewTypeSet(TypeMarkdown)
}

func (s *MarkdownStep) Apply(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.md.Convert(item.Content, &buf); err != nil {
		return nil, errors.Wrapf(err, "unable to convert %s to html", item.Filename)
	}

	return &model.WorkItem{
		Content:  buf.Bytes(),
		Filename: item.Filename,
		Type:     TypeHTML,
	}, nil
}

type markdownPipeline struct{}

func (markdownPipeline) AddFlags(fs *flag.FlagSet, cfg *koanf.Koanf) {
	if fs.Lookup(hardWrapsFlag) != nil {
		return
	}

	fs.Bool(hardWrapsFlag, cfg != nil && cfg.Bool(hardWrapsKey), "treat newlines in markdown as line breaks")
}

func (markdownPipeline) Steps(cfg *koanf.Koanf, flags *flag.FlagSet) ([]model.Step, error) {
	hardWraps := cfg != nil && cfg.Bool(hardWrapsKey)

	if flags != nil && flags.Changed(hardWrapsFlag) {
		v, err := flags.GetBool(hardWrapsFlag)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read --%s", hardWrapsFlag)
		}

		hardWraps = v
	}

	return []model.Step{NewMarkdownStep(hardWraps)}, nil
}
