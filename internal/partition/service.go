package partition

import (
	"context"
	"fmt"

	"github.com/brizzai/swagger-split/internal/config"
	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/models"
	"github.com/brizzai/swagger-split/internal/parser"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Request describes one split run
type Request struct {
	// Dir holds the input swagger.json
	Dir string
	// OutputDir receives public/ and admin/, defaults to Dir
	OutputDir   string
	Marker      string
	Rules       []models.RewriteRule
	RulesFile   string
	AdminPolicy config.AdminPolicy
	Indent      bool
	Validate    bool
	Exclude     map[string]bool
}

// Plan is a fully computed split that has not been written yet
type Plan struct {
	Document *parser.Document
	Options  Options
	Result   *Result
	Outputs  []Output
	request  Request
}

// ServiceParams holds the dependencies of a Service
type ServiceParams struct {
	fx.In

	Loader      parser.Loader
	RulesLoader *parser.RulesLoader
	Partitioner *Partitioner
	Writer      *Writer
}

// Service runs split requests end to end
type Service struct {
	loader      parser.Loader
	rulesLoader *parser.RulesLoader
	partitioner *Partitioner
	writer      *Writer
}

// NewService creates a new Service
func NewService(params ServiceParams) *Service {
	return &Service{
		loader:      params.Loader,
		rulesLoader: params.RulesLoader,
		partitioner: params.Partitioner,
		writer:      params.Writer,
	}
}

// Plan loads the document and rules, partitions the paths and renders the
// output documents in memory.
func (s *Service) Plan(ctx context.Context, req Request) (*Plan, error) {
	doc, err := s.loader.Load(req.Dir)
	if err != nil {
		return nil, err
	}

	if summary, err := parser.Inspect(ctx, doc.Raw, false); err == nil {
		logger.Info("Input document",
			zap.String("spec_version", summary.SpecVersion),
			zap.String("title", summary.Title),
			zap.String("version", summary.Version))
	} else {
		logger.Debug("Input is not a loadable OpenAPI document", zap.Error(err))
	}

	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}

	result, err := s.partitioner.Partition(doc.Entries, opts)
	if err != nil {
		return nil, err
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = req.Dir
	}
	outputs, err := s.writer.Build(doc, result, outDir, req.Indent)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Document: doc,
		Options:  opts,
		Result:   result,
		Outputs:  outputs,
		request:  req,
	}, nil
}

// Replan repartitions an existing plan with a new exclusion set, reusing the
// loaded document.
func (s *Service) Replan(plan *Plan, exclude map[string]bool) (*Plan, error) {
	opts := plan.Options
	opts.Exclude = exclude

	result, err := s.partitioner.Partition(plan.Document.Entries, opts)
	if err != nil {
		return nil, err
	}

	outDir := plan.request.OutputDir
	if outDir == "" {
		outDir = plan.request.Dir
	}
	outputs, err := s.writer.Build(plan.Document, result, outDir, plan.request.Indent)
	if err != nil {
		return nil, err
	}

	req := plan.request
	req.Exclude = exclude
	return &Plan{
		Document: plan.Document,
		Options:  opts,
		Result:   result,
		Outputs:  outputs,
		request:  req,
	}, nil
}

// Apply validates the rendered documents when requested and writes them.
// Nothing is written if any document fails validation.
func (s *Service) Apply(ctx context.Context, plan *Plan) error {
	if plan.request.Validate {
		for _, out := range plan.Outputs {
			if _, err := parser.Inspect(ctx, out.Data, true); err != nil {
				return fmt.Errorf("%s document: %w", out.Bucket, err)
			}
		}
	}
	return s.writer.WriteAll(plan.Outputs)
}

// Run plans and applies a request
func (s *Service) Run(ctx context.Context, req Request) (*Plan, error) {
	plan, err := s.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// options merges the rules file with the request. Request values win; rules
// from the file run before rules from the request.
func (s *Service) options(req Request) (Options, error) {
	file, err := s.rulesLoader.Load(req.RulesFile)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Marker:      req.Marker,
		AdminPolicy: req.AdminPolicy,
		Exclude:     req.Exclude,
	}
	if opts.Marker == "" {
		opts.Marker = file.Marker
	}
	if opts.Marker == "" {
		opts.Marker = config.DefaultMarker
	}
	if opts.AdminPolicy == "" {
		opts.AdminPolicy = config.AdminPolicy(file.AdminPolicy)
	}
	if opts.AdminPolicy == "" {
		opts.AdminPolicy = config.AdminPolicyKeep
	}

	opts.Rules = make([]models.RewriteRule, 0, len(file.Rules)+len(req.Rules))
	opts.Rules = append(opts.Rules, file.Rules...)
	opts.Rules = append(opts.Rules, req.Rules...)
	return opts, nil
}
