package main

import (
	"fmt"

	"github.com/brizzai/swagger-split/internal/render"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a Handlebars template against a JSON document",
		Long: `Render fills a Handlebars template with a JSON context, for example turning a
swagger.json into an HTML page. Besides the built-in helpers, templates can use
ifeq, basename, join, lower and json.`,
		Example: `  swagger-split render --context-file target/swagger.json --template-file templates/strapdown.html.hbs --output docs/index.html`,
		Args:    cobra.NoArgs,
		RunE:    runRender,
	}

	cmd.Flags().String("context-file", "", "JSON file used as the template context")
	cmd.Flags().String("template-file", "", "Handlebars template file")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagFilename("context-file", "json")

	return cmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	var renderer *render.Renderer
	return runApp(func() error {
		out, err := renderer.RenderFiles(render.Request{
			ContextFile:  cfg.Render.ContextFile,
			TemplateFile: cfg.Render.TemplateFile,
			OutputFile:   cfg.Render.OutputFile,
		})
		if err != nil {
			return err
		}
		if cfg.Render.OutputFile == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		return nil
	}, &renderer)
}
