package deepl

import "fmt"

// Formality 译文正式程度
type Formality string

const (
	FormalityDefault    Formality = "default"
	FormalityMore       Formality = "more"
	FormalityLess       Formality = "less"
	FormalityPreferMore Formality = "prefer_more"
	FormalityPreferLess Formality = "prefer_less"
)

// ParseFormality 解析正式程度，空值等价于默认值
func ParseFormality(value string) (Formality, error) {
	switch Formality(value) {
	case "", FormalityDefault:
		return FormalityDefault, nil
	case FormalityMore, FormalityLess, FormalityPreferMore, FormalityPreferLess:
		return Formality(value), nil
	default:
		return "", fmt.Errorf("invalid formality: %q", value)
	}
}

// SplitSentences 句子切分模式
type SplitSentences string

const (
	// SplitOff 不切分，整段输入当作一个句子
	SplitOff SplitSentences = "0"

	// SplitAll 按标点和换行切分（API默认）
	SplitAll SplitSentences = "1"

	// SplitNoNewlines 只按标点切分，忽略换行
	SplitNoNewlines SplitSentences = "nonewlines"

	// SplitDefault 默认切分模式
	SplitDefault = SplitAll
)

// ParseSplitSentences 解析句子切分模式，空值等价于默认值
func ParseSplitSentences(value string) (SplitSentences, error) {
	switch SplitSentences(value) {
	case "", SplitDefault:
		return SplitDefault, nil
	case SplitOff, SplitNoNewlines:
		return SplitSentences(value), nil
	default:
		return "", fmt.Errorf("invalid split_sentences: %q", value)
	}
}

// 标签处理模式
const (
	TagHandlingXML  = "xml"
	TagHandlingHTML = "html"
)

// ValidTagHandling 校验标签处理模式，空值表示不做标签处理
func ValidTagHandling(value string) error {
	switch value {
	case "", TagHandlingXML, TagHandlingHTML:
		return nil
	default:
		return fmt.Errorf("invalid tag_handling: %q (only %q and %q are supported)",
			value, TagHandlingXML, TagHandlingHTML)
	}
}

// TranslateOptions 一次翻译调用的全部参数
type TranslateOptions struct {
	// SourceLang 源语言代码，空值表示自动检测
	SourceLang string

	// TargetLang 目标语言代码
	TargetLang string

	// Formality 正式程度
	Formality Formality

	// SplitSentences 句子切分模式
	SplitSentences SplitSentences

	// PreserveFormatting 保留原始排版
	PreserveFormatting bool

	// Context 附加上下文，影响翻译但自身不被翻译
	Context string

	// GlossaryID 术语表ID
	GlossaryID string

	// TagHandling 标签处理模式（xml或html）
	TagHandling string

	// OutlineDetection 自动检测XML结构，nil 表示沿用API默认（开启）
	OutlineDetection *bool

	// NonSplittingTags 不用于切分句子的标签
	NonSplittingTags []string

	// SplittingTags 用于切分句子的标签
	SplittingTags []string

	// IgnoreTags 内容不参与翻译的标签
	IgnoreTags []string
}

// Translation 单条翻译结果
type Translation struct {
	DetectedSourceLanguage string `json:"detected_source_language"`
	Text                   string `json:"text"`
}

// translateRequest /v2/translate 的请求体
type translateRequest struct {
	Text               []string `json:"text"`
	SourceLang         string   `json:"source_lang,omitempty"`
	TargetLang         string   `json:"target_lang"`
	Formality          string   `json:"formality,omitempty"`
	SplitSentences     string   `json:"split_sentences,omitempty"`
	PreserveFormatting bool     `json:"preserve_formatting,omitempty"`
	Context            string   `json:"context,omitempty"`
	GlossaryID         string   `json:"glossary_id,omitempty"`
	TagHandling        string   `json:"tag_handling,omitempty"`
	OutlineDetection   *bool    `json:"outline_detection,omitempty"`
	NonSplittingTags   []string `json:"non_splitting_tags,omitempty"`
	SplittingTags      []string `json:"splitting_tags,omitempty"`
	IgnoreTags         []string `json:"ignore_tags,omitempty"`
}

// translateResponse /v2/translate 的响应体
type translateResponse struct {
	Translations []Translation `json:"translations"`
}

// Usage 账户用量信息
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}
