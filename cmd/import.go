package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/drillbot/internal/excel"
	"github.com/example/drillbot/internal/universe"
)

var importConfig = excel.DefaultImportConfig()

var importCmd = &cobra.Command{
	Use:   "import <domain> <file>",
	Short: "Replace a domain's deck with items from an Excel or CSV file",
	Long: `Replace the deck of the chinese or english domain with the rows of an
.xlsx or .csv file. Columns hold the key, answer, pronunciation, translation
and example; rows with an empty or repeated key are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := domainArg(a, args[0])
		if err != nil {
			return err
		}
		if d.Key == universe.Math {
			return errors.New("arithmetic items are generated and cannot be imported")
		}

		cfg := importConfig
		cfg.FilePath = args[1]
		result, err := excel.ImportDeck(cfg)
		if err != nil {
			return err
		}
		for _, msg := range result.Errors {
			fmt.Println("⚠️", msg)
		}
		if len(result.Items) == 0 {
			return errors.Errorf("no items found in %s", cfg.FilePath)
		}

		saved, err := a.items.ReplaceDeck(cmd.Context(), d.Key, result.Items)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Imported %d items into %s (%d rows processed, %d skipped).\n",
			saved, d.Title, result.TotalProcessed, result.Skipped)
		return nil
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importConfig.SheetName, "sheet", importConfig.SheetName, "sheet to read from an Excel file")
	f.IntVar(&importConfig.StartRow, "start-row", importConfig.StartRow, "first row to import (1-based)")
	f.StringVar(&importConfig.KeyColumn, "key-col", importConfig.KeyColumn, "column with the character or word")
	f.StringVar(&importConfig.AnswerColumn, "answer-col", importConfig.AnswerColumn, "column with the answer")
	f.StringVar(&importConfig.PronunciationColumn, "pronunciation-col", importConfig.PronunciationColumn, "column with the pronunciation")
	f.StringVar(&importConfig.TranslationColumn, "translation-col", importConfig.TranslationColumn, "column with the translation")
	f.StringVar(&importConfig.ExampleColumn, "example-col", importConfig.ExampleColumn, "column with an example sentence")
	rootCmd.AddCommand(importCmd)
}
