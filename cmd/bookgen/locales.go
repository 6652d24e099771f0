package main

import (
	"fmt"

	"bookgen/internal/content"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLocalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales [query]",
		Short: "List supported locales, or resolve one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				locale, err := content.ParseLocale(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), locale)
				return err
			}

			data := pterm.TableData{{"ID", "Name", "Native titles", "Rich text"}}
			for _, info := range content.Locales() {
				data = append(data, []string{
					string(info.ID), info.Name, yesNo(info.NativeTitles), yesNo(info.RichText),
				})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
