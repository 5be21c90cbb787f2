package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/dkrysak/chemviz/internal/domain/analysis"
	"github.com/dkrysak/chemviz/internal/report"
	"github.com/dkrysak/chemviz/internal/stats"
	"github.com/dkrysak/chemviz/internal/tabular"
)

// Service implements the upload→analyze→store→trim pipeline and report
// generation. Archive and Insights are optional; nil disables them.
type Service struct {
	Repo     domain.Repository
	Archive  domain.ReportArchive
	Insights domain.InsightGenerator
	Log      *zap.SugaredLogger
}

// AnalyzeUpload parses the CSV stream, computes the statistics and persists
// the result for the owner, trimming the owner's history to the cap.
func (s *Service) AnalyzeUpload(ctx context.Context, owner int64, file io.Reader) (*domain.Record, error) {
	table, err := tabular.Read(file)
	if err != nil {
		return nil, err
	}
	result, err := stats.Compute(table)
	if err != nil {
		return nil, err
	}
	rec, err := s.Repo.Create(ctx, owner, result)
	if err != nil {
		return nil, fmt.Errorf("storing analysis: %w", err)
	}
	s.Log.Infow("analysis stored", "owner", owner, "rows", result.TotalCount)
	return rec, nil
}

// History returns the owner's retained records, newest first.
func (s *Service) History(ctx context.Context, owner int64) ([]*domain.Record, error) {
	return s.Repo.List(ctx, owner)
}

// ReportCommand is the /download/ payload plus the recipient identity.
type ReportCommand struct {
	ChartImage string
	Stats      map[string]any
	CreatedAt  string
	Recipient  string
	Owner      string
	// Result feeds the optional AI summary; zero value skips it.
	Result domain.Result
}

// BuildReport renders the encrypted PDF and, when an archive is configured,
// uploads a copy in the background. Returns the bytes and the attachment
// filename. An undecodable chart image degrades to a chartless report.
func (s *Service) BuildReport(ctx context.Context, cmd ReportCommand) ([]byte, string, error) {
	var chart []byte
	if cmd.ChartImage != "" {
		var err error
		chart, err = report.DecodeChartImage(cmd.ChartImage)
		if err != nil {
			s.Log.Warnw("chart image rejected, rendering without chart", "err", err)
			chart = nil
		}
	}

	summary := s.summarize(ctx, cmd.Result)

	pdf, err := report.Render(report.Request{
		Stats:     cmd.Stats,
		ChartPNG:  chart,
		CreatedAt: cmd.CreatedAt,
		Recipient: cmd.Recipient,
		Summary:   summary,
	})
	if err != nil {
		return nil, "", err
	}

	filename := sanitizeFilename(cmd.CreatedAt) + ".pdf"

	if s.Archive != nil {
		key := fmt.Sprintf("%s/%s-%s", cmd.Owner, sanitizeFilename(cmd.CreatedAt), uuid.New().String()[:8]) + ".pdf"
		go s.archive(key, pdf)
	}
	return pdf, filename, nil
}

func (s *Service) summarize(ctx context.Context, res domain.Result) string {
	if s.Insights == nil || res.TotalCount == 0 {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	summary, err := s.Insights.Summarize(ctx, res)
	if err != nil {
		s.Log.Warnw("insight generation failed", "err", err)
		return ""
	}
	return summary
}

// archive runs detached from the request so a slow object store never
// delays the download response.
func (s *Service) archive(key string, pdf []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	url, err := s.Archive.Upload(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf")
	if err != nil {
		s.Log.Warnw("report archive upload failed", "key", key, "err", err)
		return
	}
	s.Log.Infow("report archived", "key", key, "url", url)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFilename(s string) string {
	out := unsafeFilename.ReplaceAllString(s, "_")
	if out == "" {
		out = "report"
	}
	return out
}
