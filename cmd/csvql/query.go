package main

import (
	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a single query and print the result",
		Example: `  csvql query "SELECT name FROM student WHERE age > 18"
  csvql query -f table "SELECT student.name, enrollment.course FROM student LEFT JOIN enrollment ON student.id = enrollment.student_id"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.run(cmd.Context(), cmd.OutOrStdout(), args[0], a.cfg.Format, a.cfg.Limit)
			if err != nil {
				return err
			}
			a.log.Info("query complete", "rows", n)
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "limit number of rows (0 = unlimited)")
	return cmd
}
