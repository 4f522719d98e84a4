package translators

import (
	"context"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
)

// TextTranslatorType 文本翻译组件的类型标识
const TextTranslatorType = "github.com/nerdneilsfield/deepl-pipeline/pkg/translators.TextTranslator"

// TextTranslator 单文本翻译组件：接收一个字符串，返回译文和元信息
type TextTranslator struct {
	opts   Options
	client translateClient
	logger *zap.Logger
}

// 确保 TextTranslator 实现 pipeline.Serializable 接口
var _ pipeline.Serializable = (*TextTranslator)(nil)

// TextResult 单文本翻译结果
type TextResult struct {
	// Translation 译文
	Translation string

	// SourceLang 检测到或声明的源语言
	SourceLang string

	// Language 目标语言
	Language string
}

// NewTextTranslator 创建文本翻译组件。
// 目标语言必须是单个非空语言代码；凭证在构造时解析，失败立即报错。
func NewTextTranslator(opts ...Option) (*TextTranslator, error) {
	o, client, logger, err := build(opts)
	if err != nil {
		return nil, err
	}

	if len(o.TargetLangs) != 1 || o.TargetLangs[0] == "" {
		return nil, pipeline.NewTypeError(
			"target_lang must be a single non-empty language code, use the document translator for multi-language output")
	}

	return &TextTranslator{
		opts:   o,
		client: client,
		logger: logger,
	}, nil
}

// Translate 翻译一段文本。sourceLang 覆盖构造时配置的源语言，空值表示沿用配置。
func (t *TextTranslator) Translate(ctx context.Context, text string, sourceLang string) (*TextResult, error) {
	if text == "" {
		return nil, pipeline.NewValueError("empty text provided", pipeline.ErrEmptyText)
	}

	target := t.opts.TargetLangs[0]
	translations, err := t.client.TranslateText(ctx, []string{text}, t.opts.translateOptions(target, sourceLang))
	if err != nil {
		return nil, err
	}

	return &TextResult{
		Translation: translations[0].Text,
		SourceLang:  translations[0].DetectedSourceLanguage,
		Language:    target,
	}, nil
}

// Run 实现 pipeline.Component 接口。
// 输入：text（字符串，必填）、source_lang（字符串，可选）。
// 输出：translation（字符串）、meta（source_lang 和 language）。
func (t *TextTranslator) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	raw, ok := inputs["text"]
	if !ok {
		return nil, pipeline.NewTypeError("text translator expects a string input named \"text\"")
	}
	text, ok := raw.(string)
	if !ok {
		return nil, pipeline.NewTypeError(
			"text translator expects a string as input, got %T; to translate a list of documents use the document translator", raw)
	}

	sourceLang, err := sourceLangInput(inputs)
	if err != nil {
		return nil, err
	}

	result, err := t.Translate(ctx, text, sourceLang)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"translation": result.Translation,
		"meta": map[string]any{
			MetaKeySourceLang: result.SourceLang,
			MetaKeyLanguage:   result.Language,
		},
	}, nil
}

// ToDict 序列化组件配置
func (t *TextTranslator) ToDict() map[string]any {
	return map[string]any{
		"type":            TextTranslatorType,
		"init_parameters": t.opts.initParameters(),
	}
}

// TextTranslatorFromDict 从序列化数据重建文本翻译组件
func TextTranslatorFromDict(data map[string]any) (*TextTranslator, error) {
	params, err := pipeline.InitParameters(data)
	if err != nil {
		return nil, err
	}
	opts, err := optionsFromParams(params)
	if err != nil {
		return nil, err
	}
	return NewTextTranslator(opts...)
}

// sourceLangInput 读取可选的 source_lang 输入
func sourceLangInput(inputs map[string]any) (string, error) {
	raw, ok := inputs["source_lang"]
	if !ok || raw == nil {
		return "", nil
	}
	lang, ok := raw.(string)
	if !ok {
		return "", pipeline.NewTypeError("source_lang must be a string, got %T", raw)
	}
	return lang, nil
}

func init() {
	_ = pipeline.Register(TextTranslatorType, func(data map[string]any) (pipeline.Component, error) {
		return TextTranslatorFromDict(data)
	})
}
