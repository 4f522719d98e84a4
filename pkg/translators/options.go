package translators

import (
	"context"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/deepl"
	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
)

// DefaultAPIKeyEnvVar 默认从该环境变量解析认证密钥
const DefaultAPIKeyEnvVar = "DEEPL_API_KEY"

// translateClient 远程翻译客户端的能力抽象，测试时可注入替身
type translateClient interface {
	TranslateText(ctx context.Context, texts []string, opts deepl.TranslateOptions) ([]deepl.Translation, error)
}

// Options 翻译组件的全部构造配置，构造后不再变更
type Options struct {
	// APIKey 认证凭证来源
	APIKey pipeline.Secret

	// SourceLang 源语言代码，空值表示自动检测
	SourceLang string

	// TargetLangs 目标语言代码（有序），文档翻译组件支持多个
	TargetLangs []string

	// targetLangWasList 记录目标语言是否以列表形式给出，序列化时保形
	targetLangWasList bool

	// Formality 正式程度
	Formality deepl.Formality

	// MaxRetries 转发给客户端的最大网络重试次数
	MaxRetries int

	// PreserveFormatting 保留原始排版
	PreserveFormatting bool

	// SplitSentences 句子切分模式
	SplitSentences deepl.SplitSentences

	// Context 附加上下文
	Context string

	// Glossary 术语表ID
	Glossary string

	// TagHandling 标签处理模式
	TagHandling string

	// OutlineDetection 自动检测XML结构
	OutlineDetection bool

	// NonSplittingTags 不用于切分句子的标签
	NonSplittingTags []string

	// SplittingTags 用于切分句子的标签
	SplittingTags []string

	// IgnoreTags 内容不参与翻译的标签
	IgnoreTags []string

	// IncludeScore 是否保留原文档得分（仅文档翻译组件）
	IncludeScore bool

	// 测试与高级用途
	endpoint string
	client   translateClient
	logger   *zap.Logger
}

// Option 组件配置选项函数
type Option func(*Options)

// defaultOptions 返回默认配置
func defaultOptions() Options {
	return Options{
		APIKey:           pipeline.SecretFromEnv(DefaultAPIKeyEnvVar),
		TargetLangs:      []string{"EN-US"},
		Formality:        deepl.FormalityDefault,
		MaxRetries:       5,
		SplitSentences:   deepl.SplitDefault,
		OutlineDetection: true,
		IncludeScore:     true,
	}
}

// WithAPIKey 设置认证凭证
func WithAPIKey(secret pipeline.Secret) Option {
	return func(o *Options) {
		o.APIKey = secret
	}
}

// WithSourceLang 设置默认源语言
func WithSourceLang(lang string) Option {
	return func(o *Options) {
		o.SourceLang = lang
	}
}

// WithTargetLang 设置单个目标语言
func WithTargetLang(lang string) Option {
	return func(o *Options) {
		o.TargetLangs = []string{lang}
		o.targetLangWasList = false
	}
}

// WithTargetLangs 设置多个目标语言，按给定顺序输出
func WithTargetLangs(langs ...string) Option {
	return func(o *Options) {
		o.TargetLangs = append([]string{}, langs...)
		o.targetLangWasList = true
	}
}

// WithFormality 设置正式程度
func WithFormality(formality deepl.Formality) Option {
	return func(o *Options) {
		o.Formality = formality
	}
}

// WithMaxRetries 设置最大网络重试次数（由客户端执行）
func WithMaxRetries(retries int) Option {
	return func(o *Options) {
		o.MaxRetries = retries
	}
}

// WithPreserveFormatting 设置是否保留原始排版
func WithPreserveFormatting(preserve bool) Option {
	return func(o *Options) {
		o.PreserveFormatting = preserve
	}
}

// WithSplitSentences 设置句子切分模式
func WithSplitSentences(mode deepl.SplitSentences) Option {
	return func(o *Options) {
		o.SplitSentences = mode
	}
}

// WithContextHint 设置附加上下文，影响翻译但自身不被翻译
func WithContextHint(text string) Option {
	return func(o *Options) {
		o.Context = text
	}
}

// WithGlossary 设置术语表ID
func WithGlossary(glossaryID string) Option {
	return func(o *Options) {
		o.Glossary = glossaryID
	}
}

// WithTagHandling 设置标签处理模式（xml或html）
func WithTagHandling(mode string) Option {
	return func(o *Options) {
		o.TagHandling = mode
	}
}

// WithOutlineDetection 设置是否自动检测XML结构
func WithOutlineDetection(enabled bool) Option {
	return func(o *Options) {
		o.OutlineDetection = enabled
	}
}

// WithNonSplittingTags 设置不用于切分句子的标签
func WithNonSplittingTags(tags ...string) Option {
	return func(o *Options) {
		o.NonSplittingTags = append([]string{}, tags...)
	}
}

// WithSplittingTags 设置用于切分句子的标签
func WithSplittingTags(tags ...string) Option {
	return func(o *Options) {
		o.SplittingTags = append([]string{}, tags...)
	}
}

// WithIgnoreTags 设置内容不参与翻译的标签
func WithIgnoreTags(tags ...string) Option {
	return func(o *Options) {
		o.IgnoreTags = append([]string{}, tags...)
	}
}

// WithIncludeScore 设置是否保留原文档得分
func WithIncludeScore(include bool) Option {
	return func(o *Options) {
		o.IncludeScore = include
	}
}

// WithEndpoint 覆盖API地址（自建代理或测试服务器）
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.endpoint = endpoint
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// withClient 注入客户端替身，仅测试使用
func withClient(client translateClient) Option {
	return func(o *Options) {
		o.client = client
	}
}

// build 应用选项并完成公共校验和客户端构造
func build(opts []Option) (Options, translateClient, *zap.Logger, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := deepl.ValidTagHandling(o.TagHandling); err != nil {
		return o, nil, nil, pipeline.NewValueError(err.Error(), nil)
	}

	logger := o.logger
	if logger == nil {
		logger = zap.L()
	}

	client := o.client
	if client == nil {
		authKey, err := o.APIKey.Resolve()
		if err != nil {
			return o, nil, nil, err
		}

		config := deepl.DefaultConfig()
		config.AuthKey = authKey
		config.APIEndpoint = o.endpoint
		config.MaxRetries = o.MaxRetries
		client = deepl.New(config)
	}

	return o, client, logger, nil
}

// translateOptions 把组件配置映射为一次调用的客户端参数
func (o *Options) translateOptions(targetLang, sourceLang string) deepl.TranslateOptions {
	resolved := sourceLang
	if resolved == "" {
		resolved = o.SourceLang
	}

	topts := deepl.TranslateOptions{
		SourceLang:         resolved,
		TargetLang:         targetLang,
		Formality:          o.Formality,
		SplitSentences:     o.SplitSentences,
		PreserveFormatting: o.PreserveFormatting,
		Context:            o.Context,
		GlossaryID:         o.Glossary,
		TagHandling:        o.TagHandling,
		NonSplittingTags:   o.NonSplittingTags,
		SplittingTags:      o.SplittingTags,
		IgnoreTags:         o.IgnoreTags,
	}
	if !o.OutlineDetection {
		disabled := false
		topts.OutlineDetection = &disabled
	}
	return topts
}
