package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/deepl-pipeline/pkg/deepl"
)

// newUsageCommand 创建查询账户用量的命令
func newUsageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "查询DeepL账户的字符用量",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer func() {
				_ = log.Sync()
			}()

			authKey, err := apiKeySecret().Resolve()
			if err != nil {
				return err
			}

			config := deepl.DefaultConfig()
			config.AuthKey = authKey
			client := deepl.New(config)

			usage, err := client.Usage(cmd.Context())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"character_count", "character_limit"})
			t.AppendRow(table.Row{usage.CharacterCount, usage.CharacterLimit})
			t.Render()

			return nil
		},
	}
}
