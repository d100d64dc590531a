package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kittclouds/quantkit/internal/store"
	"github.com/kittclouds/quantkit/pkg/disambig"
)

var trainCmd = &cobra.Command{
	Use:   "train [file]",
	Short: "Train the context classifier from labeled sentences",
	Long: `Train reads tab-separated "label<TAB>sentence" lines from the
file (or stdin) and records each sentence's embedding and word counts
under that label. Labels are unit or entity names, e.g.

	pound sterling	the loan was denominated in pounds
	pound-mass	the parcel weighed around four pounds

The downloaded sentence transformer lives under the model.path
directory; the corpus goes to the store.path database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		modelPath, err := disambig.PrepareModel(viper.GetString("model.path"))
		if err != nil {
			return err
		}
		st, err := store.NewSQLiteStoreWithDSN(viper.GetString("store.path"))
		if err != nil {
			return err
		}
		defer st.Close()

		classifier, err := disambig.NewEmbeddingClassifier(modelPath, st)
		if err != nil {
			return err
		}
		defer classifier.Close()

		trained, line := 0, 0
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line++
			label, sentence, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "\t")
			if !ok || label == "" || sentence == "" {
				logger.Warn("skipping malformed line", zap.Int("line", line))
				continue
			}
			if err := classifier.Train(label, sentence); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			trained++
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s trained %d sentences\n",
			color.GreenString("ok:"), trained)
		return nil
	},
}
