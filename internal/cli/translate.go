package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/deepl-pipeline/internal/config"
	"github.com/nerdneilsfield/deepl-pipeline/pkg/deepl"
	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
	"github.com/nerdneilsfield/deepl-pipeline/pkg/translators"
)

// newTranslateCommand 创建翻译命令
func newTranslateCommand() *cobra.Command {
	var (
		sourceLang         string
		targetLangs        []string
		formality          string
		splitSentences     string
		preserveFormatting bool
		contextHint        string
		glossaryID         string
		tagHandling        string
		noOutlineDetection bool
		nonSplittingTags   []string
		splittingTags      []string
		ignoreTags         []string
		maxRetries         int
		noScore            bool
		documentsPath      string
		pipelinePath       string
		componentName      string
	)

	cmd := &cobra.Command{
		Use:   "translate [flags] [text]",
		Short: "翻译一段文本或一批文档",
		Long: `翻译一段文本或一批文档。

直接给出文本参数时使用文本翻译组件；
通过 --documents 给出JSON文档文件时使用文档翻译组件；
通过 --pipeline 给出流水线定义文件时运行其中的持久化组件。`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer func() {
				_ = log.Sync()
			}()

			if pipelinePath != "" {
				return runPipelineComponent(cmd, pipelinePath, componentName, sourceLang, args)
			}

			opts, err := buildOptions(sourceLang, targetLangs, formality, splitSentences,
				preserveFormatting, contextHint, glossaryID, tagHandling, noOutlineDetection,
				nonSplittingTags, splittingTags, ignoreTags, maxRetries, noScore, log)
			if err != nil {
				return err
			}

			if documentsPath != "" {
				return translateDocuments(cmd, documentsPath, sourceLang, opts)
			}

			if len(args) == 0 {
				return fmt.Errorf("nothing to translate: pass a text argument or --documents")
			}
			return translateText(cmd, args[0], sourceLang, opts)
		},
	}

	cmd.Flags().StringVarP(&sourceLang, "source", "s", "", "源语言代码（留空自动检测）")
	cmd.Flags().StringSliceVarP(&targetLangs, "target", "t", []string{"EN-US"}, "目标语言代码，可指定多个（文档模式）")
	cmd.Flags().StringVar(&formality, "formality", "", "正式程度: default/more/less/prefer_more/prefer_less")
	cmd.Flags().StringVar(&splitSentences, "split-sentences", "", "句子切分模式: 0/1/nonewlines")
	cmd.Flags().BoolVar(&preserveFormatting, "preserve-formatting", false, "保留原始排版")
	cmd.Flags().StringVar(&contextHint, "context", "", "附加上下文（不参与翻译）")
	cmd.Flags().StringVar(&glossaryID, "glossary", "", "术语表ID")
	cmd.Flags().StringVar(&tagHandling, "tag-handling", "", "标签处理模式: xml/html")
	cmd.Flags().BoolVar(&noOutlineDetection, "no-outline-detection", false, "关闭XML结构自动检测")
	cmd.Flags().StringSliceVar(&nonSplittingTags, "non-splitting-tags", nil, "不用于切分句子的标签")
	cmd.Flags().StringSliceVar(&splittingTags, "splitting-tags", nil, "用于切分句子的标签")
	cmd.Flags().StringSliceVar(&ignoreTags, "ignore-tags", nil, "内容不参与翻译的标签")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 5, "最大网络重试次数")
	cmd.Flags().BoolVar(&noScore, "no-score", false, "输出文档不保留原得分")
	cmd.Flags().StringVar(&documentsPath, "documents", "", "待翻译文档的JSON文件")
	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "流水线定义文件（yaml/json）")
	cmd.Flags().StringVar(&componentName, "component", "", "流水线定义中要运行的组件名")

	return cmd
}

// buildOptions 把命令行标志映射为组件构造选项
func buildOptions(sourceLang string, targetLangs []string, formality, splitSentences string,
	preserveFormatting bool, contextHint, glossaryID, tagHandling string, noOutlineDetection bool,
	nonSplittingTags, splittingTags, ignoreTags []string, maxRetries int, noScore bool,
	log *zap.Logger,
) ([]translators.Option, error) {
	opts := []translators.Option{
		translators.WithAPIKey(apiKeySecret()),
		translators.WithTargetLangs(targetLangs...),
		translators.WithMaxRetries(maxRetries),
		translators.WithLogger(log),
	}

	if sourceLang != "" {
		opts = append(opts, translators.WithSourceLang(sourceLang))
	}
	if formality != "" {
		parsed, err := deepl.ParseFormality(formality)
		if err != nil {
			return nil, err
		}
		opts = append(opts, translators.WithFormality(parsed))
	}
	if splitSentences != "" {
		parsed, err := deepl.ParseSplitSentences(splitSentences)
		if err != nil {
			return nil, err
		}
		opts = append(opts, translators.WithSplitSentences(parsed))
	}
	if preserveFormatting {
		opts = append(opts, translators.WithPreserveFormatting(true))
	}
	if contextHint != "" {
		opts = append(opts, translators.WithContextHint(contextHint))
	}
	if glossaryID != "" {
		opts = append(opts, translators.WithGlossary(glossaryID))
	}
	if tagHandling != "" {
		opts = append(opts, translators.WithTagHandling(tagHandling))
	}
	if noOutlineDetection {
		opts = append(opts, translators.WithOutlineDetection(false))
	}
	if len(nonSplittingTags) > 0 {
		opts = append(opts, translators.WithNonSplittingTags(nonSplittingTags...))
	}
	if len(splittingTags) > 0 {
		opts = append(opts, translators.WithSplittingTags(splittingTags...))
	}
	if len(ignoreTags) > 0 {
		opts = append(opts, translators.WithIgnoreTags(ignoreTags...))
	}
	if noScore {
		opts = append(opts, translators.WithIncludeScore(false))
	}

	return opts, nil
}

// translateText 用文本翻译组件翻译单个字符串并打印结果
func translateText(cmd *cobra.Command, text, sourceLang string, opts []translators.Option) error {
	component, err := translators.NewTextTranslator(opts...)
	if err != nil {
		return err
	}

	result, err := component.Translate(cmd.Context(), text, sourceLang)
	if err != nil {
		return err
	}

	cmd.Println(result.Translation)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.ErrOrStderr())
	t.AppendHeader(table.Row{"source_lang", "language"})
	t.AppendRow(table.Row{result.SourceLang, result.Language})
	t.Render()

	return nil
}

// translateDocuments 用文档翻译组件翻译JSON文件中的文档，结果以JSON输出
func translateDocuments(cmd *cobra.Command, path, sourceLang string, opts []translators.Option) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read documents file: %w", err)
	}

	var documents []pipeline.Document
	if err := json.Unmarshal(raw, &documents); err != nil {
		return fmt.Errorf("failed to parse documents file: %w", err)
	}

	component, err := translators.NewDocumentTranslator(opts...)
	if err != nil {
		return err
	}

	translated, err := component.Translate(cmd.Context(), documents, sourceLang)
	if err != nil {
		return err
	}

	return printJSON(cmd, translated)
}

// runPipelineComponent 运行流水线定义文件中持久化的组件
func runPipelineComponent(cmd *cobra.Command, path, name, sourceLang string, args []string) error {
	components, err := config.LoadPipeline(path)
	if err != nil {
		return err
	}

	component, ok := components[name]
	if !ok {
		available := make([]string, 0, len(components))
		for n := range components {
			available = append(available, n)
		}
		return fmt.Errorf("component %q not found in %s (available: %s)",
			name, path, strings.Join(available, ", "))
	}

	if len(args) == 0 {
		return fmt.Errorf("nothing to translate: pass a text argument")
	}

	inputs := map[string]any{"text": args[0]}
	if sourceLang != "" {
		inputs["source_lang"] = sourceLang
	}

	outputs, err := component.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	return printJSON(cmd, outputs)
}

// printJSON 以缩进JSON打印结果
func printJSON(cmd *cobra.Command, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(encoded))
	return nil
}
