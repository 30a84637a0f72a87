package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weft-dev/weft"
	"github.com/weft-dev/weft/pkg/expr"
)

func renderCmd() *cobra.Command {
	var (
		configDir    string
		dataPath     string
		templatePath string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the template once and print it",
		Long: `Evaluate the template against the data file and print the result.

Reads weft.json from the working directory (or --config) for the
data and template paths; --data and --template override it.

Examples:
  weft render
  weft render --data=state.yaml --template=page.tmpl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, data, tpl, err := loadProject(configDir, dataPath, templatePath)
			if err != nil {
				return err
			}

			app, err := weft.New(data)
			if err != nil {
				return err
			}
			defer app.Close()

			program, err := expr.Compile(tpl)
			if err != nil {
				return err
			}

			out, err := program.Eval(app.Scope())
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", "", "Directory containing weft.json")
	cmd.Flags().StringVar(&dataPath, "data", "", "Data file (default from weft.json)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Template file (default from weft.json)")

	return cmd
}
