package translators

import (
	"context"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
)

// DocumentTranslatorType 文档翻译组件的类型标识
const DocumentTranslatorType = "github.com/nerdneilsfield/deepl-pipeline/pkg/translators.DocumentTranslator"

// 组件拥有的保留元数据键，输出时总是覆盖写入
const (
	// MetaKeySourceLang 检测到或声明的源语言
	MetaKeySourceLang = "source_lang"

	// MetaKeyLanguage 本次翻译的目标语言
	MetaKeyLanguage = "language"
)

// DocumentTranslator 文档批量翻译组件。
// 接收一批文档，内容替换为译文，元数据在原有基础上补写保留键；
// 配置多个目标语言时每种语言各输出一批。
type DocumentTranslator struct {
	opts   Options
	client translateClient
	logger *zap.Logger
}

// 确保 DocumentTranslator 实现 pipeline.Serializable 接口
var _ pipeline.Serializable = (*DocumentTranslator)(nil)

// NewDocumentTranslator 创建文档翻译组件。
// 目标语言可以是单个代码或有序列表；凭证在构造时解析，失败立即报错。
func NewDocumentTranslator(opts ...Option) (*DocumentTranslator, error) {
	o, client, logger, err := build(opts)
	if err != nil {
		return nil, err
	}

	if len(o.TargetLangs) == 0 {
		return nil, pipeline.NewTypeError(
			"target_lang must be a language code or a non-empty list of language codes")
	}
	for _, lang := range o.TargetLangs {
		if lang == "" {
			return nil, pipeline.NewTypeError(
				"target_lang must contain only non-empty language codes")
		}
	}

	return &DocumentTranslator{
		opts:   o,
		client: client,
		logger: logger,
	}, nil
}

// Translate 翻译一批文档。sourceLang 覆盖构造时配置的源语言。
// 内容为空的文档不上送也不输出；每个目标语言一次远程调用，
// 输出按目标语言分组，组内保持输入顺序。
func (t *DocumentTranslator) Translate(ctx context.Context, documents []pipeline.Document, sourceLang string) ([]pipeline.Document, error) {
	if len(documents) == 0 {
		t.logger.Warn("no documents provided for translation")
		return []pipeline.Document{}, nil
	}

	batch := make([]pipeline.Document, 0, len(documents))
	texts := make([]string, 0, len(documents))
	for _, doc := range documents {
		if doc.Content == "" {
			t.logger.Warn("skipping document with empty content", zap.String("id", doc.ID))
			continue
		}
		batch = append(batch, doc)
		texts = append(texts, doc.Content)
	}

	translated := make([]pipeline.Document, 0, len(batch)*len(t.opts.TargetLangs))
	if len(batch) == 0 {
		return translated, nil
	}

	for _, target := range t.opts.TargetLangs {
		translations, err := t.client.TranslateText(ctx, texts, t.opts.translateOptions(target, sourceLang))
		if err != nil {
			return nil, err
		}

		for i, doc := range batch {
			if _, ok := doc.Meta[MetaKeyLanguage]; ok {
				t.logger.Warn("document meta already contains a reserved key, it will be overwritten",
					zap.String("id", doc.ID), zap.String("key", MetaKeyLanguage))
			}
			if _, ok := doc.Meta[MetaKeySourceLang]; ok {
				t.logger.Warn("document meta already contains a reserved key, it will be overwritten",
					zap.String("id", doc.ID), zap.String("key", MetaKeySourceLang))
			}

			out := pipeline.NewDocument(translations[i].Text)
			out.Meta = doc.CloneMeta()
			out.Meta[MetaKeySourceLang] = translations[i].DetectedSourceLanguage
			out.Meta[MetaKeyLanguage] = target
			if t.opts.IncludeScore {
				out.Score = doc.Score
			}

			translated = append(translated, out)
		}
	}

	return translated, nil
}

// Run 实现 pipeline.Component 接口。
// 输入：documents（文档列表，必填）、source_lang（字符串，可选）。
// 输出：documents（翻译后的文档列表）。
func (t *DocumentTranslator) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	documents, err := documentsInput(inputs)
	if err != nil {
		return nil, err
	}

	sourceLang, err := sourceLangInput(inputs)
	if err != nil {
		return nil, err
	}

	translated, err := t.Translate(ctx, documents, sourceLang)
	if err != nil {
		return nil, err
	}

	return map[string]any{"documents": translated}, nil
}

// ToDict 序列化组件配置
func (t *DocumentTranslator) ToDict() map[string]any {
	params := t.opts.initParameters()
	params["include_score"] = t.opts.IncludeScore
	return map[string]any{
		"type":            DocumentTranslatorType,
		"init_parameters": params,
	}
}

// DocumentTranslatorFromDict 从序列化数据重建文档翻译组件
func DocumentTranslatorFromDict(data map[string]any) (*DocumentTranslator, error) {
	params, err := pipeline.InitParameters(data)
	if err != nil {
		return nil, err
	}
	opts, err := optionsFromParams(params)
	if err != nil {
		return nil, err
	}
	if v, ok, err := boolParam(params, "include_score"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithIncludeScore(v))
	}
	return NewDocumentTranslator(opts...)
}

// documentsInput 读取必填的 documents 输入，元素类型不符时报输入形状错误
func documentsInput(inputs map[string]any) ([]pipeline.Document, error) {
	raw, ok := inputs["documents"]
	if !ok {
		return nil, pipeline.NewTypeError("document translator expects a list of documents named \"documents\"")
	}
	switch v := raw.(type) {
	case []pipeline.Document:
		return v, nil
	case []any:
		documents := make([]pipeline.Document, 0, len(v))
		for _, item := range v {
			doc, ok := item.(pipeline.Document)
			if !ok {
				return nil, pipeline.NewTypeError(
					"document translator expects a list of documents as input, got element of type %T", item)
			}
			documents = append(documents, doc)
		}
		return documents, nil
	default:
		return nil, pipeline.NewTypeError(
			"document translator expects a list of documents as input, got %T", raw)
	}
}

func init() {
	_ = pipeline.Register(DocumentTranslatorType, func(data map[string]any) (pipeline.Component, error) {
		return DocumentTranslatorFromDict(data)
	})
}
