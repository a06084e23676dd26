package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/atsgateway"
	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/core/common/validation"
	"github.com/frahmantamala/interview-console/internal/credentials"
	"github.com/frahmantamala/interview-console/internal/export"
	"github.com/frahmantamala/interview-console/internal/interview"
	"github.com/frahmantamala/interview-console/internal/session"
	"github.com/frahmantamala/interview-console/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	exportParams interview.ListParams
	exportOutput string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered interviews to an Excel workbook",
	Long:  `Page through every interview matching the filters and write them to an xlsx file, using the token stored with "token set"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd)
	},
}

func runExport(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := logger.L()

	if err := exportParams.Validate(); err != nil {
		return validation.FromRules(err, internal.ErrCodeValidationFailed)
	}

	token, err := credentials.LoadToken(cfg.Backend.BaseURL)
	if err != nil {
		return err
	}
	sess, err := session.Decode(token, time.Now())
	if err != nil {
		return fmt.Errorf("stored token is not usable: %w", err)
	}
	if sess.CompanyID == "" {
		return internal.ErrMissingCompany
	}

	gateway := atsgateway.NewClient(atsgateway.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, log)
	companyService := company.NewService(gateway, nil, log)
	interviewService := interview.NewService(gateway, companyService, nil, interview.Config{
		PageSize: cfg.Interviews.PageSize,
		Location: cfg.Interviews.Location(),
	}, log)

	req := exportParams.ToRequest()
	_, query := interviewService.ResolveQuery(req, cfg.Interviews.PageSize)

	interviews, err := interviewService.Export(ctx, sess, req, exportLimit)
	if err != nil {
		return err
	}

	// names are a nicety; the ids are exported when the lookup fails
	users, err := companyService.Users(ctx, sess, atsgateway.UserFilter{})
	if err != nil {
		log.Warn("exporting without user names", "error", err)
	}
	roles, err := companyService.Roles(ctx, sess, false)
	if err != nil {
		log.Warn("exporting without role names", "error", err)
	}

	output := exportOutput
	if output == "" {
		output = fmt.Sprintf("interviews-%s.xlsx", interviewService.Today().Format(interview.DateKeyLayout))
	}
	workbook := export.Workbook{
		Interviews:  interviews,
		Users:       users,
		Roles:       roles,
		Location:    interviewService.Location(),
		Query:       query.Values().Encode(),
		GeneratedAt: time.Now(),
	}
	err = writeFile(output, func(w io.Writer) error {
		return export.WriteInterviews(w, workbook)
	})
	if err != nil {
		return err
	}

	log.Info("interviews exported", "file", output, "rows", len(interviews))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d interviews to %s\n", len(interviews), output)
	return nil
}

// writeFile creates path and runs write on it. The file is removed when
// writing or closing fails so no partial workbook is left behind.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return write(f)
}

func init() {
	flags := exportCmd.Flags()
	flags.StringVar(&exportParams.CandidateName, "candidate", "", "Candidate name search")
	flags.StringVar(&exportParams.Status, "status", "", "Interview status")
	flags.StringVar(&exportParams.Type, "type", "", "Interview type")
	flags.StringVar(&exportParams.Position, "position", "", "Job position id")
	flags.StringVar(&exportParams.Role, "role", "", "Required company role id")
	flags.StringVar(&exportParams.Interviewer, "interviewer", "", "Interviewer user id")
	flags.StringVar(&exportParams.FromDate, "from", "", "Lower date bound (ISO-8601)")
	flags.StringVar(&exportParams.ToDate, "to", "", "Upper date bound (ISO-8601)")
	flags.StringVar(&exportParams.FilterBy, "filter-by", "", "Date field the bounds apply to: scheduled, deadline or unscheduled")
	flags.StringVar(&exportParams.Metric, "metric", "", "Summary metric shortcut; replaces every other filter")
	flags.StringVarP(&exportOutput, "output", "o", "", "Output file (default interviews-<today>.xlsx)")
	flags.IntVar(&exportLimit, "limit", 1000, "Maximum rows to export, 0 for no limit")
}
