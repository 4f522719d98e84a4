package translators

import (
	"github.com/nerdneilsfield/deepl-pipeline/pkg/deepl"
	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
)

// initParameters 按序列化契约编码共有的配置字段。
// 可选字符串和空标签列表编码为 nil，枚举值编码为底层字符串。
func (o *Options) initParameters() map[string]any {
	var targetLang any
	if o.targetLangWasList || len(o.TargetLangs) != 1 {
		targetLang = append([]string{}, o.TargetLangs...)
	} else {
		targetLang = o.TargetLangs[0]
	}

	return map[string]any{
		"api_key":             o.APIKey.ToDict(),
		"source_lang":         nilIfEmpty(o.SourceLang),
		"target_lang":         targetLang,
		"formality":           string(o.Formality),
		"max_retries":         o.MaxRetries,
		"preserve_formatting": o.PreserveFormatting,
		"split_sentences":     string(o.SplitSentences),
		"context":             nilIfEmpty(o.Context),
		"glossary":            nilIfEmpty(o.Glossary),
		"tag_handling":        nilIfEmpty(o.TagHandling),
		"outline_detection":   o.OutlineDetection,
		"non_splitting_tags":  nilIfEmptyList(o.NonSplittingTags),
		"splitting_tags":      nilIfEmptyList(o.SplittingTags),
		"ignore_tags":         nilIfEmptyList(o.IgnoreTags),
	}
}

// optionsFromParams 把 init_parameters 解码为构造选项列表
func optionsFromParams(params map[string]any) ([]Option, error) {
	var opts []Option

	if raw, ok := params["api_key"]; ok && raw != nil {
		dict, ok := raw.(map[string]any)
		if !ok {
			return nil, pipeline.NewSerializeError("api_key must be a serialized secret, got %T", raw)
		}
		secret, err := pipeline.SecretFromDict(dict)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithAPIKey(secret))
	}

	if v, err := stringParam(params, "source_lang"); err != nil {
		return nil, err
	} else if v != "" {
		opts = append(opts, WithSourceLang(v))
	}

	langs, wasList, err := targetLangParam(params)
	if err != nil {
		return nil, err
	}
	if langs != nil {
		if wasList {
			opts = append(opts, WithTargetLangs(langs...))
		} else {
			opts = append(opts, WithTargetLang(langs[0]))
		}
	}

	if v, err := stringParam(params, "formality"); err != nil {
		return nil, err
	} else if v != "" {
		formality, err := deepl.ParseFormality(v)
		if err != nil {
			return nil, pipeline.NewSerializeError("%v", err)
		}
		opts = append(opts, WithFormality(formality))
	}

	if v, ok, err := intParam(params, "max_retries"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithMaxRetries(v))
	}

	if v, ok, err := boolParam(params, "preserve_formatting"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithPreserveFormatting(v))
	}

	if v, err := stringParam(params, "split_sentences"); err != nil {
		return nil, err
	} else if v != "" {
		mode, err := deepl.ParseSplitSentences(v)
		if err != nil {
			return nil, pipeline.NewSerializeError("%v", err)
		}
		opts = append(opts, WithSplitSentences(mode))
	}

	if v, err := stringParam(params, "context"); err != nil {
		return nil, err
	} else if v != "" {
		opts = append(opts, WithContextHint(v))
	}

	if v, err := stringParam(params, "glossary"); err != nil {
		return nil, err
	} else if v != "" {
		opts = append(opts, WithGlossary(v))
	}

	if v, err := stringParam(params, "tag_handling"); err != nil {
		return nil, err
	} else if v != "" {
		opts = append(opts, WithTagHandling(v))
	}

	if v, ok, err := boolParam(params, "outline_detection"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithOutlineDetection(v))
	}

	if tags, err := stringListParam(params, "non_splitting_tags"); err != nil {
		return nil, err
	} else if tags != nil {
		opts = append(opts, WithNonSplittingTags(tags...))
	}

	if tags, err := stringListParam(params, "splitting_tags"); err != nil {
		return nil, err
	} else if tags != nil {
		opts = append(opts, WithSplittingTags(tags...))
	}

	if tags, err := stringListParam(params, "ignore_tags"); err != nil {
		return nil, err
	} else if tags != nil {
		opts = append(opts, WithIgnoreTags(tags...))
	}

	return opts, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilIfEmptyList(list []string) any {
	if len(list) == 0 {
		return nil
	}
	return append([]string{}, list...)
}

// stringParam 读取可选字符串参数，nil/缺失视为空
func stringParam(params map[string]any, key string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return "", nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", pipeline.NewSerializeError("%s must be a string, got %T", key, raw)
	}
	return v, nil
}

// boolParam 读取可选布尔参数，第二个返回值表示是否存在
func boolParam(params map[string]any, key string) (bool, bool, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return false, false, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, false, pipeline.NewSerializeError("%s must be a boolean, got %T", key, raw)
	}
	return v, true, nil
}

// intParam 读取可选整数参数，兼容JSON解码产生的float64
func intParam(params map[string]any, key string) (int, bool, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		return int(v), true, nil
	default:
		return 0, false, pipeline.NewSerializeError("%s must be an integer, got %T", key, raw)
	}
}

// stringListParam 读取字符串或字符串列表参数，nil/缺失返回nil
func stringListParam(params map[string]any, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, pipeline.NewSerializeError("%s must contain only strings, got %T", key, item)
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, pipeline.NewSerializeError("%s must be a string or a list of strings, got %T", key, raw)
	}
}

// targetLangParam 读取目标语言参数，保留单值/列表的原始形态
func targetLangParam(params map[string]any) ([]string, bool, error) {
	raw, ok := params["target_lang"]
	if !ok || raw == nil {
		return nil, false, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, false, nil
	case []string:
		return append([]string{}, v...), true, nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false, pipeline.NewTypeError(
					"target_lang must be a string representing a language code or a list of language codes, got element of type %T", item)
			}
			list = append(list, s)
		}
		return list, true, nil
	default:
		return nil, false, pipeline.NewTypeError(
			"target_lang must be a string representing a language code or a list of language codes, got %T", raw)
	}
}
