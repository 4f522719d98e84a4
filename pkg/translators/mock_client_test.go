package translators

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/deepl"
)

// mockCall 记录一次远程调用的入参
type mockCall struct {
	texts []string
	opts  deepl.TranslateOptions
}

// mockClient 确定性的远程客户端替身。
// 译文 = "<目标语言>:<原文>"，检测到的源语言固定返回 detected。
type mockClient struct {
	calls    []mockCall
	detected string
	err      error
}

func newMockClient() *mockClient {
	return &mockClient{detected: "EN"}
}

func (m *mockClient) TranslateText(ctx context.Context, texts []string, opts deepl.TranslateOptions) ([]deepl.Translation, error) {
	m.calls = append(m.calls, mockCall{texts: append([]string{}, texts...), opts: opts})

	if m.err != nil {
		return nil, m.err
	}

	translations := make([]deepl.Translation, len(texts))
	for i, text := range texts {
		translations[i] = deepl.Translation{
			DetectedSourceLanguage: m.detected,
			Text:                   fmt.Sprintf("%s:%s", opts.TargetLang, text),
		}
	}
	return translations, nil
}
