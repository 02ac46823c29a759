package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/brizzai/swagger-split/internal/config"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/brizzai/swagger-split/internal/partition"
	"github.com/brizzai/swagger-split/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <dir> [marker=] [match=replacement...]",
		Short: "Split <dir>/swagger.json into public and admin documents",
		Long: `Split reads <dir>/swagger.json and writes <dir>/public/swagger.json and
<dir>/admin/swagger.json.

The second argument is the tenant marker, e.g. "tenant=": paths whose original key
contains it are public, all others are admin. Every following argument is a rewrite
rule "match=replacement" applied to path keys in order; an empty replacement deletes
the match.`,
		Example: `  swagger-split split ./target/swagger "tenant=" "tenant/{tenantId}/="
  swagger-split split ./target/swagger --rules-file rules.yaml --admin-policy discard
  swagger-split split ./target/swagger --watch`,
		RunE: runSplit,
	}

	cmd.Flags().String("output-dir", "", "Directory receiving public/ and admin/ (default <dir>)")
	cmd.Flags().String("rules-file", "", "YAML file with marker, admin_policy and rules")
	cmd.Flags().String("admin-policy", "", "What to do with non-tenant paths (keep|discard, default keep)")
	cmd.Flags().Bool("indent", false, "Pretty-print the output documents")
	cmd.Flags().Bool("validate", false, "Validate output documents as OpenAPI before writing")
	cmd.Flags().BoolP("interactive", "i", false, "Review the split in a TUI before writing")
	cmd.Flags().BoolP("watch", "w", false, "Split again every time swagger.json changes")
	_ = cmd.MarkFlagFilename("rules-file", "yaml", "yml")

	return cmd
}

// splitRequest merges positional arguments over the loaded configuration
func splitRequest(cfg *config.SplitConfig, args []string) (partition.Request, error) {
	req := partition.Request{
		Dir:         cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		Marker:      cfg.Marker,
		RulesFile:   cfg.RulesFile,
		AdminPolicy: cfg.AdminPolicy,
		Indent:      cfg.Indent,
		Validate:    cfg.Validate,
	}

	rules, err := parser.ParseRules(cfg.Rules)
	if err != nil {
		return req, err
	}
	req.Rules = rules

	if len(args) > 0 {
		positional, err := parser.ParseSplitArgs(args)
		if err != nil {
			return req, err
		}
		req.Dir = positional.Dir
		if positional.Marker != "" {
			req.Marker = positional.Marker
		}
		req.Rules = append(req.Rules, positional.Rules...)
	}

	if req.Dir == "" {
		return req, &parser.NotFoundError{Path: "<dir>", Field: "split.input_dir"}
	}
	return req, nil
}

func runSplit(cmd *cobra.Command, args []string) error {
	req, err := splitRequest(&cfg.Split, args)
	if err != nil {
		return err
	}

	var svc *partition.Service
	return runApp(func() error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if cfg.Split.Watch {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return svc.Watch(ctx, req, partition.DefaultDebounce, func(plan *partition.Plan, err error) {
				if err != nil {
					pterm.Error.Println(err)
					return
				}
				report(plan)
			})
		}

		plan, err := svc.Plan(ctx, req)
		if err != nil {
			return err
		}

		if cfg.Split.Interactive {
			exclude, confirmed, err := tui.Review(plan, tea.WithAltScreen())
			if err != nil {
				return err
			}
			if !confirmed {
				pterm.Warning.Println("Review cancelled, nothing was written")
				return nil
			}
			if plan, err = svc.Replan(plan, exclude); err != nil {
				return err
			}
		}

		if err := svc.Apply(ctx, plan); err != nil {
			return err
		}
		report(plan)
		return nil
	}, &svc)
}

func report(plan *partition.Plan) {
	for _, out := range plan.Outputs {
		pterm.Success.Printfln("Wrote %s %s paths to %s",
			pterm.LightGreen(out.Entries), out.Bucket, out.Path)
	}
	if plan.Result.Collisions > 0 {
		pterm.Warning.Printfln("%d path keys collided after rewriting, later entries were kept",
			plan.Result.Collisions)
	}
}
