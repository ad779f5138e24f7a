package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-announce-bot/internal/config"
	"github.com/nerdneilsfield/go-announce-bot/internal/logger"
	"github.com/nerdneilsfield/go-announce-bot/pkg/glossary"
)

var (
	// glossary 命令相关标志
	glossaryFile  string
	glossaryLimit int
	glossaryFind  string
)

// NewGlossaryCommand 创建术语表查看命令
func NewGlossaryCommand() *cobra.Command {
	glossaryCmd := &cobra.Command{
		Use:   "glossary",
		Short: "查看游戏术语表",
		Long: `查看当前配置的游戏术语表（中英对照）。

用法示例：
  announcer glossary                      # 列出全部术语
  announcer glossary --limit 20           # 只显示前 20 条
  announcer glossary --find 冒险者        # 查找单个术语
  announcer glossary -f data/terms.toml   # 指定术语表文件`,
		RunE: runGlossaryCommand,
	}

	glossaryCmd.Flags().StringVarP(&glossaryFile, "file", "f", "", "术语表文件路径（默认取配置中的 glossary_path）")
	glossaryCmd.Flags().IntVar(&glossaryLimit, "limit", 0, "最多显示的术语条数，0 表示全部")
	glossaryCmd.Flags().StringVar(&glossaryFind, "find", "", "按中文查找单个术语")

	return glossaryCmd
}

// runGlossaryCommand 执行 glossary 命令
func runGlossaryCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	path := glossaryFile
	if path == "" {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path = cfg.GlossaryPath
	}

	store := glossary.NewStore(path, log)
	terms := store.Load()

	if glossaryFind != "" {
		term, found := store.Find(glossaryFind)
		if !found {
			color.Yellow("未找到术语: %s", glossaryFind)
			return nil
		}
		fmt.Printf("%s → %s\n", term.CN, term.EN)
		return nil
	}

	title := color.New(color.FgCyan, color.Bold)
	_, _ = title.Printf("📖 术语表 (%s)，共 %d 条\n\n", path, len(terms))

	if len(terms) == 0 {
		return nil
	}

	shown := terms
	if glossaryLimit > 0 && glossaryLimit < len(shown) {
		shown = shown[:glossaryLimit]
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "中文", "English"})
	for i, term := range shown {
		tw.AppendRow(table.Row{i + 1, term.CN, term.EN})
	}
	tw.Render()

	if len(shown) < len(terms) {
		fmt.Printf("\n... 另有 %d 条未显示（--limit 调整）\n", len(terms)-len(shown))
	}

	return nil
}
