package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/deepl-pipeline/internal/logger"
	"github.com/nerdneilsfield/deepl-pipeline/pkg/pipeline"
)

var (
	// 命令行标志变量
	debugMode    bool
	apiKeyEnvVar string
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deepl-pipeline",
		Short: "DeepL 翻译流水线组件的命令行前端",
		Long: `deepl-pipeline 把 DeepL 翻译 API 封装为两个可序列化的流水线组件：
  - 文本翻译组件: 翻译单个字符串
  - 文档翻译组件: 批量翻译带元数据的文档，支持一次输出多个目标语言

认证密钥默认从环境变量 DEEPL_API_KEY 读取。`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试日志")
	rootCmd.PersistentFlags().StringVar(&apiKeyEnvVar, "api-key-env", "DEEPL_API_KEY", "认证密钥所在的环境变量名")

	rootCmd.AddCommand(newTranslateCommand())
	rootCmd.AddCommand(newUsageCommand())
	rootCmd.AddCommand(newComponentsCommand())

	return rootCmd
}

// newLogger 按调试标志创建日志记录器，并设为全局默认
func newLogger() *zap.Logger {
	log := logger.NewLogger(debugMode)
	zap.ReplaceGlobals(log)
	return log
}

// apiKeySecret 返回命令行约定的凭证来源
func apiKeySecret() pipeline.Secret {
	return pipeline.SecretFromEnv(apiKeyEnvVar)
}

// newComponentsCommand 创建列出已注册组件类型的命令
func newComponentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "列出可反序列化的组件类型",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range pipeline.DefaultRegistry.List() {
				cmd.Println(name)
			}
			return nil
		},
	}
}
