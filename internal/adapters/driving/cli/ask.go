package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tsen1220/tw-stock-analyst/internal/adapters/driving/tui"
	"github.com/tsen1220/tw-stock-analyst/internal/core/ports/driving"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask questions about the Taiwan stock market",
	Long: `Answers market questions from the synced data. With a question
argument the answer is printed once; without one an interactive session
starts. Type quit, exit or q to leave the session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	deps, err := buildAskDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	// The answer pipeline degrades gracefully, but an unreachable or
	// empty store means every question would come back empty. Fail
	// fast with a hint instead.
	info, err := deps.info(ctx)
	if err != nil {
		return fmt.Errorf("vector store unavailable (is Qdrant running?): %w", err)
	}
	if info.PointsCount == 0 {
		return fmt.Errorf("collection %q is empty, run 'twstock sync' first", info.Name)
	}

	if !deps.modelAvailable(ctx) {
		cmd.Printf("警告：找不到 %s 模型，請先執行 ollama pull %s\n",
			deps.modelName, deps.modelName)
	}

	if len(args) > 0 {
		return askOnce(ctx, cmd, deps.answerer, args[0])
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return tui.Run(ctx, deps.answerer)
	}
	return askLoop(ctx, cmd, deps.answerer)
}

// askOnce answers a single question and prints it with its sources.
func askOnce(ctx context.Context, cmd *cobra.Command, answerer driving.Answerer, question string) error {
	answer, err := answerer.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	printAnswer(cmd, answer)
	return nil
}

// askLoop is the plain QA loop for non-terminal stdin.
func askLoop(ctx context.Context, cmd *cobra.Command, answerer driving.Answerer) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		cmd.Printf("問題> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isQuitWord(question) {
			break
		}

		answer, err := answerer.Ask(ctx, question)
		if err != nil {
			cmd.Printf("錯誤：%v\n", err)
			continue
		}
		printAnswer(cmd, answer)
	}

	return scanner.Err()
}

// printAnswer writes the answer text followed by its ranked sources.
func printAnswer(cmd *cobra.Command, answer driving.Answer) {
	cmd.Println(answer.Text)
	if len(answer.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("資料來源：")
	for i, src := range answer.Sources {
		cmd.Printf("  [%d] %s %s %s (相關度 %.3f)\n",
			i+1, src.StockID, src.StockName, src.Date, src.Score)
	}
}

// isQuitWord reports whether the input ends the session.
func isQuitWord(s string) bool {
	switch strings.ToLower(s) {
	case "quit", "exit", "q", "離開", "結束":
		return true
	}
	return false
}
