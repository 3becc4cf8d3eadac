package builtin

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/askiada/go-docpipeline/pkg/pipeline"
	"github.com/askiada/go-docpipeline/pkg/pipeline/model"
)

const (
	sanitizePolicyFlag = "sanitize-policy"
	sanitizePolicyKey  = "sanitize.policy"

	PolicyUGC    = "ugc"
	PolicyStrict = "strict"
)

var ErrUnknownPolicy = errors.New("unknown sanitize policy")

// SanitizeStep removes unsafe markup from HTML.
type SanitizeStep struct {
	name   string
	policy *bluemonday.Policy
}

func NewSanitizeStep(policyName string) (*SanitizeStep, error) {
	var policy *bluemonday.Policy

	switch policyName {
	case PolicyUGC, "":
		policyName = PolicyUGC
		policy = bluemonday.UGCPolicy()
	case PolicyStrict:
		policy = bluemonday.StrictPolicy()
	default:
		return nil, errors.Wrapf(ErrUnknownPolicy, "%q", policyName)
	}

	return &SanitizeStep{name: fmt.Sprintf("sanitize(%s)", policyName), policy: policy}, nil
}

func (s *SanitizeStep) String() string {
	return s.name
}

func (s *SanitizeStep) SupportedTypes() model.TypeSet {
	return model.NewTypeSet(TypeHTML)
}

func (s *SanitizeStep) Apply(_ context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	return &model.WorkItem{
		Content:  s.policy.SanitizeBytes(item.Content),
		Filename: item.Filename,
		Type:     TypeHTML,
	}, nil
}

type sanitizePipeline struct{}

func (sanitizePipeline) AddFlags(fs *flag.FlagSet, cfg *koanf.Koanf) {
	if fs.Lookup(sanitizePolicyFlag) != nil {
		return
	}

	def := PolicyUGC
	if cfg != nil && cfg.String(sanitizePolicyKey) != "" {
		def = cfg.String(sanitizePolicyKey)
	}

	fs.String(sanitizePolicyFlag, def, "html sanitize policy (ugc or strict)")
}

func (sanitizePipeline) Steps(cfg *koanf.Koanf, flags *flag.FlagSet) ([]model.Step, error) {
	policyName := ""
	if cfg != nil {
		policyName = cfg.String(sanitizePolicyKey)
	}

	if flags != nil && flags.Changed(sanitizePolicyFlag) {
		v, err := flags.GetString(sanitizePolicyFlag)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read --%s", sanitizePolicyFlag)
		}

		policyName = v
	}

	step, err := NewSanitizeStep(policyName)
	if err != nil {
		return nil, err
	}

	return []model.Step{step}, nil
}

var (
	_ pipeline.Pipeline = sanitizePipeline{}
	_ pipeline.Pipeline = markdownPipeline{}
)
