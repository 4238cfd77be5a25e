package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	appconfig "github.com/c360studio/apigrade/config"
	"github.com/c360studio/apigrade/detect"
	"github.com/c360studio/apigrade/grading"
	"github.com/c360studio/apigrade/loader"
	"github.com/c360studio/apigrade/priority"
	"github.com/c360studio/apigrade/processor/grader"
	"github.com/c360studio/apigrade/profile"
	"github.com/c360studio/apigrade/scoring"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// gradeContext is the optional YAML sidecar describing the business
// environment a contract operates in. Both sections are optional.
type gradeContext struct {
	Priority *priority.Context        `yaml:"priority"`
	Business *scoring.BusinessContext `yaml:"business"`
}

func newGradeCmd(logLevel *string) *cobra.Command {
	var (
		profileID   string
		contextPath string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "grade [spec patterns...]",
		Short: "Grade OpenAPI contract documents",
		Long: `Grade loads one or more OpenAPI documents, detects each document's
archetype, evaluates the style-guide rules of the matching profile, and
prints an adaptive score with its adjustment audit trail.

Patterns may be file paths, directories, or globs (including **). When no
pattern is given, the patterns from the apigrade.yaml config are used.

A context file supplies the business environment, for example:

  priority:
    domain: finance
    regulations: [PCI-DSS]
    risk_level: high
  business:
    domain: finance
    maturity: mature`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(args, profileID, contextPath, jsonOutput, *logLevel)
		},
	}

	cmd.Flags().StringVarP(&profileID, "profile", "p", "", "Pin a grading profile id instead of using archetype detection")
	cmd.Flags().StringVar(&contextPath, "context", "", "Path to a YAML business/priority context file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print full results as JSON")
	return cmd
}

func runGrade(patterns []string, profileID, contextPath string, jsonOutput bool, logLevel string) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := appconfig.NewLoader(logger).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(patterns) == 0 {
		patterns = cfg.Specs.Patterns
	}

	paths, err := loader.ResolvePaths(patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no spec files match %v", patterns)
	}

	gradeCtx, err := loadGradeContext(contextPath)
	if err != nil {
		return err
	}

	if profileID == "" {
		profileID = cfg.Grading.DefaultProfile
	}

	exec, err := buildExecutor(cfg, logger)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		req := &grader.GradeRequest{
			RequestID:       uuid.New().String(),
			Spec:            data,
			SpecPath:        path,
			ProfileID:       profileID,
			PriorityContext: gradeCtx.Priority,
			BusinessContext: gradeCtx.Business,
		}
		result, err := exec.Execute(req)
		if err != nil {
			return fmt.Errorf("grade %s: %w", path, err)
		}
		if !result.Passed {
			failed++
		}

		if jsonOutput {
			if err := printJSON(result); err != nil {
				return err
			}
			continue
		}
		printGradeResult(path, result)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d contracts failed grading", failed, len(paths))
	}
	return nil
}

// buildExecutor assembles the grading pipeline the same way the grader
// component does, but backed by the local config instead of NATS.
func buildExecutor(cfg *appconfig.Config, logger *slog.Logger) (*grader.Executor, error) {
	catalog, err := profile.NewCatalog(profile.NewMemoryStore())
	if err != nil {
		return nil, fmt.Errorf("build profile catalog: %w", err)
	}

	if cfg.Profiles.OverridesPath != "" {
		applied, err := profile.ApplyOverridesFile(catalog, cfg.Profiles.OverridesPath, logger)
		if err != nil {
			return nil, fmt.Errorf("apply profile overrides: %w", err)
		}
		logger.Debug("Applied profile overrides",
			"path", cfg.Profiles.OverridesPath, "profiles", applied)
	}

	var opts []grading.Option
	if cfg.Grading.NegationScope == "proximity" {
		opts = append(opts, grading.WithNegationScope(grading.NegationScopeProximity))
	}

	return grader.NewExecutor(catalog, cfg.Grading.DefaultProfile, opts...), nil
}

func loadGradeContext(path string) (gradeContext, error) {
	var ctx gradeContext
	if path == "" {
		return ctx, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ctx, fmt.Errorf("read context file: %w", err)
	}
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return ctx, fmt.Errorf("parse context file: %w", err)
	}
	return ctx, nil
}

func printGradeResult(path string, result *grader.GradeResult) {
	status := "PASS"
	if !result.Passed {
		status = "FAIL"
	}
	fmt.Printf("%s  %s\n", status, path)
	fmt.Printf("  api:      %s\n", result.APIID)
	fmt.Printf("  profile:  %s", result.ProfileID)
	if result.Detection != nil {
		fmt.Printf("  (detected %s, confidence %.2f)", result.Detection.DetectedProfile, result.Detection.Confidence)
	}
	fmt.Println()
	fmt.Printf("  score:    %.1f\n", result.Score)

	for _, reason := range result.AutoFailReasons {
		fmt.Printf("  auto-fail: %s\n", reason)
	}

	for _, f := range result.Findings {
		if f.Severity == grading.SeverityInfo {
			continue
		}
		fmt.Printf("  [%s] %s: %s (%s)\n", f.Severity, f.RuleID, f.Message, f.JSONPath)
	}
	if result.AdaptiveScore != nil {
		for _, adj := range result.AdaptiveScore.Adjustments {
			fmt.Printf("  adjust: %s x%.2f  %s\n", adj.Type, adj.Factor, adj.Reason)
		}
	}
	fmt.Println()
}

func newDetectCmd(logLevel *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "detect [spec patterns...]",
		Short: "Detect the API archetype of contract documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(args, jsonOutput, *logLevel)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print full detection results as JSON")
	return cmd
}

func runDetect(patterns []string, jsonOutput bool, logLevel string) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := appconfig.NewLoader(logger).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(patterns) == 0 {
		patterns = cfg.Specs.Patterns
	}

	specs, err := loader.Load(patterns)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return fmt.Errorf("no spec files match %v", patterns)
	}

	detector := detect.NewDetector()
	for _, spec := range specs {
		result := detector.Detect(spec.Doc)

		if jsonOutput {
			if err := printJSON(result); err != nil {
				return err
			}
			continue
		}

		fmt.Printf("%s\n", spec.Path)
		fmt.Printf("  archetype:  %s (confidence %.2f)\n", result.DetectedProfile, result.Confidence)
		for _, pat := range result.Reasoning.MatchedPatterns {
			fmt.Printf("  matched:    %s\n", pat)
		}
		for _, alt := range result.Alternatives {
			fmt.Printf("  alternative: %s (%.1f)\n", alt.Profile, alt.Score)
		}
		fmt.Println()
	}
	return nil
}

func newProfilesCmd(logLevel *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the available grading profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles(jsonOutput, *logLevel)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print full profile definitions as JSON")
	return cmd
}

func runProfiles(jsonOutput bool, logLevel string) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := appconfig.NewLoader(logger).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	catalog, err := profile.NewCatalog(profile.NewMemoryStore())
	if err != nil {
		return fmt.Errorf("build profile catalog: %w", err)
	}
	if cfg.Profiles.OverridesPath != "" {
		if _, err := profile.ApplyOverridesFile(catalog, cfg.Profiles.OverridesPath, logger); err != nil {
			return fmt.Errorf("apply profile overrides: %w", err)
		}
	}

	profiles := catalog.List()
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })

	if jsonOutput {
		return printJSON(profiles)
	}

	for _, p := range profiles {
		enabled := 0
		for _, r := range p.Rules {
			if r.Category != profile.RuleDisabled {
				enabled++
			}
		}
		fmt.Printf("%-24s %-12s %-28s %d rules\n", p.ID, p.Type, p.Name, enabled)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
