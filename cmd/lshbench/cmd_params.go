package main

import (
	"fmt"

	"github.com/gasparian/lsh-search-go/lsh"
	"github.com/spf13/cobra"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the derived index parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, err := lsh.New(c.Index.LSH())
			if err != nil {
				return err
			}
			params, err := idx.Params()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), params)
			fmt.Fprintf(cmd.OutOrStdout(), "collision probability (p1): %.4f\n", lsh.CollisionProbability(params.Omega))
			return nil
		},
	}
}
