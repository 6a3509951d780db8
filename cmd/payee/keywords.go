package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/payee-classifier/internal/cli"
	"github.com/Veraticus/payee-classifier/internal/common"
	"github.com/Veraticus/payee-classifier/internal/keyword"
)

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keywords",
		Aliases: []string{"kw"},
		Short:   "Manage exclusion keywords",
		Long: `Exclusion keywords mark names that are always businesses, such as banks,
agencies and insurers. Custom keywords are stored in the database and
merged with the built-in list.`,
	}

	cmd.AddCommand(keywordsListCmd())
	cmd.AddCommand(keywordsAddCmd())
	cmd.AddCommand(keywordsRemoveCmd())
	cmd.AddCommand(keywordsImportCmd())

	return cmd
}

func keywordsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exclusion keywords",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			builtin, _ := cmd.Flags().GetBool("builtin")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			custom, err := store.LoadCustomKeywords(ctx)
			if err != nil {
				return fmt.Errorf("failed to load keywords: %w", err)
			}

			out := cmd.OutOrStdout()
			if builtin {
				fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Built-in keywords (%d)", len(keyword.Builtin()))))
				for _, kw := range keyword.Builtin() {
					fmt.Fprintln(out, "  "+kw)
				}
				fmt.Fprintln(out)
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Custom keywords (%d)", len(custom))))
			if len(custom) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No custom keywords. Add one with: payee keywords add KEYWORD"))
				return nil
			}
			for _, kw := range custom {
				fmt.Fprintln(out, "  "+kw)
			}
			return nil
		},
	}

	cmd.Flags().Bool("builtin", false, "also list the built-in keywords")
	return cmd
}

func keywordsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add KEYWORD...",
		Short: "Add custom exclusion keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, kw := range args {
				if err := store.AddCustomKeyword(ctx, kw); err != nil {
					return common.NewUserError(fmt.Sprintf("Could not add keyword %q", kw), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Added "+strings.ToUpper(strings.TrimSpace(kw))))
			}
			return nil
		},
	}
}

func keywordsRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove KEYWORD",
		Aliases: []string{"rm"},
		Short:   "Remove a custom exclusion keyword",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			yes, _ := cmd.Flags().GetBool("yes")
			kw := strings.ToUpper(strings.TrimSpace(args[0]))

			if !yes {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := cli.Confirm(ctx, reader, cmd.OutOrStdout(), fmt.Sprintf("Remove keyword %s?", kw))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Keyword kept"))
					return nil
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.RemoveCustomKeyword(ctx, kw); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("%s is not a custom keyword", kw), err)
				}
				return fmt.Errorf("failed to remove keyword: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+kw))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func keywordsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import custom keywords from a YAML or text file",
		Long: `Import keywords from a YAML file, either a plain list or a mapping with a
"keywords" list, or from a text file with one keyword per line. Lines
starting with # are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return common.NewUserError("Could not read "+args[0], err)
			}

			keywords, err := parseKeywordFile(data)
			if err != nil {
				return common.NewUserError("Could not parse "+args[0], err)
			}
			if len(keywords) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No keywords found"))
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, kw := range keywords {
				if err := store.AddCustomKeyword(ctx, kw); err != nil {
					return fmt.Errorf("failed to add keyword %q: %w", kw, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d keywords", len(keywords))))
			return nil
		},
	}
}

type keywordFile struct {
	Keywords []string `yaml:"keywords"`
}

// parseKeywordFile reads a YAML keyword list or mapping, falling back to one
// keyword per line.
func parseKeywordFile(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var raw []string
	switch {
	case bytes.HasPrefix(trimmed, []byte("-")):
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML list: %w", err)
		}
	case bytes.HasPrefix(trimmed, []byte("keywords:")):
		var f keywordFile
		if err := yaml.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("invalid YAML keyword file: %w", err)
		}
		raw = f.Keywords
	default:
		scanner := bufio.NewScanner(bytes.NewReader(trimmed))
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	var keywords []string
	seen := make(map[string]struct{})
	for _, kw := range raw {
		kw = strings.ToUpper(strings.TrimSpace(kw))
		if kw == "" || strings.HasPrefix(kw, "#") {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords, nil
}
