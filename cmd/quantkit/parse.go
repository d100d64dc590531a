package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kittclouds/quantkit/pkg/parser"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "List the quantities found in the text",
	Long: `Parse prints every quantity found in the given text, one per
line. With no argument the text is read from stdin.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(args)
		if err != nil {
			return err
		}
		p, err := newParser()
		if err != nil {
			return err
		}
		quantities, err := p.Parse(text)
		if err != nil {
			return err
		}

		if parseJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(quantities)
		}

		value := color.New(color.FgCyan, color.Bold)
		unit := color.New(color.FgGreen)
		dim := color.New(color.Faint)
		for _, q := range quantities {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s",
				value.Sprintf("%g", q.Value), unit.Sprint(q.Unit.Name))
			if q.Uncertainty != nil {
				fmt.Fprintf(cmd.OutOrStdout(), " ± %g", *q.Uncertainty)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n",
				dim.Sprintf("%q [%d:%d]", q.Surface, q.Span[0], q.Span[1]))
		}
		return nil
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace [text]",
	Short: "Rewrite quantities as normalized value and unit",
	Args:  cobra.ArbitraryArgs,
	RunE:  rewriteRun((*parser.Parser).InlineReplace),
}

var expandCmd = &cobra.Command{
	Use:   "expand [text]",
	Short: "Rewrite quantities as speakable English",
	Args:  cobra.ArbitraryArgs,
	RunE:  rewriteRun((*parser.Parser).InlineExpand),
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "emit quantities as JSON")
}

func rewriteRun(rewrite func(*parser.Parser, string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		text, err := inputText(args)
		if err != nil {
			return err
		}
		p, err := newParser()
		if err != nil {
			return err
		}
		out, err := rewrite(p, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
}

func newParser() (*parser.Parser, error) {
	return parser.New(parser.Options{
		Logger:       logger,
		MatchTimeout: viper.GetDuration("parse.timeout"),
	})
}

// inputText joins the arguments, or reads stdin when there are none.
func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
