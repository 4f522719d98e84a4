package translators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/deepl"
	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
)

// newObservedLogger 返回可断言日志内容的记录器
func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}

func scoreOf(v float64) *float64 {
	return &v
}

func TestNewDocumentTranslatorValidation(t *testing.T) {
	t.Run("Empty Target List Rejected", func(t *testing.T) {
		_, err := NewDocumentTranslator(withClient(newMockClient()), WithTargetLangs())
		require.Error(t, err)
		assert.True(t, pipeline.IsCode(err, pipeline.ErrCodeInputType))
	})

	t.Run("Empty Code In Target List Rejected", func(t *testing.T) {
		_, err := NewDocumentTranslator(withClient(newMockClient()), WithTargetLangs("ES", ""))
		require.Error(t, err)
		assert.True(t, pipeline.IsCode(err, pipeline.ErrCodeInputType))
	})

	t.Run("Unresolvable Credential Fails At Construction", func(t *testing.T) {
		_, err := NewDocumentTranslator(WithAPIKey(pipeline.SecretFromEnv("DEEPL_PIPELINE_TEST_UNSET")))
		require.Error(t, err)
		assert.True(t, pipeline.IsCode(err, pipeline.ErrCodeCredential))
	})
}

func TestDocumentTranslatorTranslate(t *testing.T) {
	t.Run("Fan Out Order Per Target Language", func(t *testing.T) {
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock), WithTargetLangs("ES", "FR"))
		require.NoError(t, err)

		d1 := pipeline.NewDocument("first")
		d1.Meta["topic"] = "news"
		d2 := pipeline.NewDocument("second")
		d2.Meta["topic"] = "sports"

		translated, err := translator.Translate(context.Background(), []pipeline.Document{d1, d2}, "")
		require.NoError(t, err)

		// 2个目标语言 × 2个文档 = 4条输出，按目标语言分组，组内保持输入顺序
		require.Len(t, translated, 4)
		assert.Equal(t, "ES:first", translated[0].Content)
		assert.Equal(t, "ES:second", translated[1].Content)
		assert.Equal(t, "FR:first", translated[2].Content)
		assert.Equal(t, "FR:second", translated[3].Content)

		assert.Equal(t, "ES", translated[0].Meta["language"])
		assert.Equal(t, "FR", translated[2].Meta["language"])
		assert.Equal(t, "EN", translated[0].Meta["source_lang"])

		// 非保留元数据原样保留
		assert.Equal(t, "news", translated[0].Meta["topic"])
		assert.Equal(t, "sports", translated[1].Meta["topic"])
		assert.Equal(t, "news", translated[2].Meta["topic"])

		// 每个目标语言一次批量调用
		require.Len(t, mock.calls, 2)
		assert.Equal(t, []string{"first", "second"}, mock.calls[0].texts)
		assert.Equal(t, "ES", mock.calls[0].opts.TargetLang)
		assert.Equal(t, "FR", mock.calls[1].opts.TargetLang)
	})

	t.Run("Empty Input Short Circuits Without Remote Call", func(t *testing.T) {
		log, logs := newObservedLogger()
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock), WithLogger(log))
		require.NoError(t, err)

		translated, err := translator.Translate(context.Background(), []pipeline.Document{}, "")
		require.NoError(t, err)
		assert.Empty(t, translated)
		assert.Empty(t, mock.calls)
		assert.Equal(t, 1, logs.FilterMessageSnippet("no documents").Len())
	})

	t.Run("Empty Content Documents Are Skipped", func(t *testing.T) {
		log, logs := newObservedLogger()
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock), WithTargetLang("DE"), WithLogger(log))
		require.NoError(t, err)

		empty := pipeline.NewDocument("")
		full := pipeline.NewDocument("hello")

		translated, err := translator.Translate(context.Background(), []pipeline.Document{empty, full}, "")
		require.NoError(t, err)

		require.Len(t, translated, 1)
		assert.Equal(t, "DE:hello", translated[0].Content)

		require.Len(t, mock.calls, 1)
		assert.Equal(t, []string{"hello"}, mock.calls[0].texts)
		assert.Equal(t, 1, logs.FilterMessageSnippet("empty content").Len())
	})

	t.Run("All Empty Content Makes No Remote Call", func(t *testing.T) {
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock))
		require.NoError(t, err)

		translated, err := translator.Translate(context.Background(),
			[]pipeline.Document{pipeline.NewDocument(""), pipeline.NewDocument("")}, "")
		require.NoError(t, err)
		assert.Empty(t, translated)
		assert.Empty(t, mock.calls)
	})

	t.Run("Reserved Meta Keys Overwritten With Warning", func(t *testing.T) {
		log, logs := newObservedLogger()
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock), WithTargetLang("DE"), WithLogger(log))
		require.NoError(t, err)

		doc := pipeline.NewDocument("hello")
		doc.Meta["language"] = "XX"
		doc.Meta["source_lang"] = "YY"
		doc.Meta["author"] = "alice"

		translated, err := translator.Translate(context.Background(), []pipeline.Document{doc}, "")
		require.NoError(t, err)

		require.Len(t, translated, 1)
		assert.Equal(t, "DE", translated[0].Meta["language"])
		assert.Equal(t, "EN", translated[0].Meta["source_lang"])
		assert.Equal(t, "alice", translated[0].Meta["author"])

		// 覆盖是警告不是错误，且每个保留键各报一次
		assert.Equal(t, 2, logs.FilterMessageSnippet("reserved key").Len())

		// 输入文档自身不被修改
		assert.Equal(t, "XX", doc.Meta["language"])
	})

	t.Run("Score Propagation", func(t *testing.T) {
		doc := pipeline.NewDocument("hello")
		doc.Score = scoreOf(0.87)

		t.Run("Included By Default", func(t *testing.T) {
			translator, err := NewDocumentTranslator(withClient(newMockClient()), WithTargetLang("DE"))
			require.NoError(t, err)

			translated, err := translator.Translate(context.Background(), []pipeline.Document{doc}, "")
			require.NoError(t, err)
			require.NotNil(t, translated[0].Score)
			assert.Equal(t, 0.87, *translated[0].Score)
		})

		t.Run("Cleared When Disabled", func(t *testing.T) {
			translator, err := NewDocumentTranslator(withClient(newMockClient()),
				WithTargetLang("DE"), WithIncludeScore(false))
			require.NoError(t, err)

			translated, err := translator.Translate(context.Background(), []pipeline.Document{doc}, "")
			require.NoError(t, err)
			assert.Nil(t, translated[0].Score)
		})
	})

	t.Run("Source Override Takes Precedence", func(t *testing.T) {
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock), WithSourceLang("DE"))
		require.NoError(t, err)

		_, err = translator.Translate(context.Background(), []pipeline.Document{pipeline.NewDocument("ciao")}, "IT")
		require.NoError(t, err)
		assert.Equal(t, "IT", mock.calls[0].opts.SourceLang)
	})

	t.Run("Remote Errors Propagate Unchanged", func(t *testing.T) {
		mock := newMockClient()
		mock.err = &deepl.Error{Code: deepl.ErrCodeRateLimited, Message: "too many requests"}

		translator, err := NewDocumentTranslator(withClient(mock))
		require.NoError(t, err)

		_, err = translator.Translate(context.Background(), []pipeline.Document{pipeline.NewDocument("hello")}, "")
		assert.Same(t, mock.err, err)
	})
}

func TestDocumentTranslatorRun(t *testing.T) {
	t.Run("Outputs Documents", func(t *testing.T) {
		translator, err := NewDocumentTranslator(withClient(newMockClient()), WithTargetLang("DE"))
		require.NoError(t, err)

		outputs, err := translator.Run(context.Background(), map[string]any{
			"documents": []pipeline.Document{pipeline.NewDocument("hello")},
		})
		require.NoError(t, err)

		documents, ok := outputs["documents"].([]pipeline.Document)
		require.True(t, ok)
		require.Len(t, documents, 1)
		assert.Equal(t, "DE:hello", documents[0].Content)
	})

	t.Run("Empty List Returns Empty Documents", func(t *testing.T) {
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock))
		require.NoError(t, err)

		outputs, err := translator.Run(context.Background(), map[string]any{
			"documents": []pipeline.Document{},
		})
		require.NoError(t, err)
		assert.Equal(t, []pipeline.Document{}, outputs["documents"])
		assert.Empty(t, mock.calls)
	})

	t.Run("Accepts Any Slice Of Documents", func(t *testing.T) {
		translator, err := NewDocumentTranslator(withClient(newMockClient()), WithTargetLang("DE"))
		require.NoError(t, err)

		outputs, err := translator.Run(context.Background(), map[string]any{
			"documents": []any{pipeline.NewDocument("hello")},
		})
		require.NoError(t, err)

		documents := outputs["documents"].([]pipeline.Document)
		require.Len(t, documents, 1)
	})

	t.Run("Wrong Input Types Fail Without Remote Call", func(t *testing.T) {
		mock := newMockClient()
		translator, err := NewDocumentTranslator(withClient(mock))
		require.NoError(t, err)

		for _, input := range []any{"hello", 42, []any{"not a document"}, []int{1, 2}} {
			_, err := translator.Run(context.Background(), map[string]any{"documents": input})
			require.Error(t, err)
			assert.True(t, pipeline.IsCode(err, pipeline.ErrCodeInputType), "input %T", input)
		}

		_, err = translator.Run(context.Background(), map[string]any{})
		require.Error(t, err)
		assert.True(t, pipeline.IsCode(err, pipeline.ErrCodeInputType))

		assert.Empty(t, mock.calls)
	})
}

func TestDocumentTranslatorSerialization(t *testing.T) {
	t.Run("To Dict Defaults", func(t *testing.T) {
		translator, err := NewDocumentTranslator(withClient(newMockClient()))
		require.NoError(t, err)

		data := translator.ToDict()
		assert.Equal(t, DocumentTranslatorType, data["type"])

		params := data["init_parameters"].(map[string]any)
		assert.Equal(t, "EN-US", params["target_lang"])
		assert.Equal(t, true, params["include_score"])
		assert.Equal(t, "default", params["formality"])
		assert.Equal(t, 5, params["max_retries"])
	})

	t.Run("Target List Shape Preserved", func(t *testing.T) {
		translator, err := NewDocumentTranslator(withClient(newMockClient()), WithTargetLangs("ES", "FR"))
		require.NoError(t, err)

		params := translator.ToDict()["init_parameters"].(map[string]any)
		assert.Equal(t, []string{"ES", "FR"}, params["target_lang"])
	})

	t.Run("Round Trip Fully Populated", func(t *testing.T) {
		t.Setenv("DEEPL_API_KEY", "test-api-key")

		original, err := NewDocumentTranslator(
			WithSourceLang("EN"),
			WithTargetLangs("ES", "FR"),
			WithFormality(deepl.FormalityLess),
			WithMaxRetries(1),
			WithPreserveFormatting(true),
			WithSplitSentences(deepl.SplitOff),
			WithContextHint("news headlines"),
			WithGlossary("glossary-2"),
			WithTagHandling(deepl.TagHandlingHTML),
			WithOutlineDetection(false),
			WithIgnoreTags("code"),
			WithIncludeScore(false),
		)
		require.NoError(t, err)

		restored, err := DocumentTranslatorFromDict(original.ToDict())
		require.NoError(t, err)
		assert.Equal(t, original.ToDict(), restored.ToDict())
		assert.Equal(t, []string{"ES", "FR"}, restored.opts.TargetLangs)
		assert.False(t, restored.opts.IncludeScore)
	})

	t.Run("From Dict Via Registry", func(t *testing.T) {
		t.Setenv("DEEPL_API_KEY", "test-api-key")

		component, err := pipeline.FromDict(map[string]any{
			"type": DocumentTranslatorType,
			"init_parameters": map[string]any{
				"target_lang":   []any{"ES", "FR"},
				"include_score": false,
			},
		})
		require.NoError(t, err)

		translator, ok := component.(*DocumentTranslator)
		require.True(t, ok)
		assert.Equal(t, []string{"ES", "FR"}, translator.opts.TargetLangs)
		assert.False(t, translator.opts.IncludeScore)
	})

	t.Run("Invalid Target Lang Types Fail", func(t *testing.T) {
		for _, target := range []any{1, []any{1, 2, 3}, []any{"ES", "FR", false}} {
			_, err := DocumentTranslatorFromDict(map[string]any{
				"type": DocumentTranslatorType,
				"init_parameters": map[string]any{
					"target_lang": target,
				},
			})
			require.Error(t, err, "target_lang %v", target)
			assert.True(t, pipeline.IsCode(err, pipeline.ErrCodeInputType))
		}
	})
}
