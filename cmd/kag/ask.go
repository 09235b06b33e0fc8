package kag

import (
	"fmt"

	gokag "github.com/soundprediction/go-kag"
	"github.com/spf13/cobra"
)

var (
	askDocument string
	askMethod   string
	askGraph    string
	askCompare  bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question with evidence-augmented prompting",
	Long: `Answer a question using one of four prompt styles: vanilla (no
augmentation), rag (document chunk evidence), kag (extracted relation
evidence) or kag_rag (both). Provide the corpus with --document, or
reuse a previously saved graph with --graph for kag-only asks.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askDocument, "document", "", "document to process before asking")
	askCmd.Flags().StringVar(&askMethod, "method", string(gokag.MethodKAGRAG), "vanilla, rag, kag or kag_rag")
	askCmd.Flags().StringVar(&askGraph, "graph", "", "load a saved graph JSON before asking")
	askCmd.Flags().BoolVar(&askCompare, "compare", false, "print every method's prompt instead of answering")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	system, err := buildSystem(cfg, log)
	if err != nil {
		return err
	}
	defer system.Close(cmd.Context())

	if askGraph != "" {
		if err := system.LoadGraph(askGraph); err != nil {
			return fmt.Errorf("loading graph: %w", err)
		}
	}
	if askDocument != "" {
		if _, err := system.ProcessDocument(cmd.Context(), askDocument, "Document"); err != nil {
			return err
		}
	}

	question := args[0]

	if askCompare {
		compared, err := system.CompareEnhancements(cmd.Context(), question)
		if err != nil {
			return err
		}
		for _, method := range []gokag.Method{gokag.MethodVanilla, gokag.MethodRAG, gokag.MethodKAG, gokag.MethodKAGRAG} {
			fmt.Printf("=== %s ===\n%s\n\n", method, compared[method])
		}
		return nil
	}

	answer, err := system.AnswerQuestion(cmd.Context(), question, gokag.Method(askMethod))
	if err != nil {
		return err
	}
	fmt.Println(answer.Response)
	return nil
}
