package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
)

// DocumentService renders locked shift logs to PDF and stores them on disk.
type DocumentService struct {
	renderer     DocumentRenderer
	careHomes    repository.CareHomesRepository
	serviceUsers repository.ServiceUsersRepository
	summaries    repository.ShiftSummariesRepository
	mediaRoot    string
	logger       *zap.Logger
}

func NewDocumentService(
	renderer DocumentRenderer,
	careHomes repository.CareHomesRepository,
	serviceUsers repository.ServiceUsersRepository,
	summaries repository.ShiftSummariesRepository,
	mediaRoot string,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		renderer:     renderer,
		careHomes:    careHomes,
		serviceUsers: serviceUsers,
		summaries:    summaries,
		mediaRoot:    mediaRoot,
		logger:       logger,
	}
}

// RenderAndAttach renders the summary's entries to PDF, writes the file under
// the media root and records the path on the summary. The caller has already
// locked the summary; failures here must not undo the lock.
func (s *DocumentService) RenderAndAttach(ctx context.Context, summary *domain.ShiftSummary, entries []*domain.LogEntry) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("summary is required")
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("summary %s has no log entries to render", summary.SummaryID)
	}

	req := RenderRequest{
		SummaryID: summary.SummaryID,
		StaffName: summary.StaffName,
		Date:      summary.Date.Format("2006-01-02"),
		Shift:     string(summary.Shift),
	}
	if home, err := s.careHomes.GetCareHome(ctx, summary.CareHomeID); err == nil {
		req.CareHomeName = home.Name
		req.ShiftWindow = home.ShiftWindow(summary.Shift)
	}
	if user, err := s.serviceUsers.GetServiceUser(ctx, summary.ServiceUserID); err == nil {
		req.ServiceUserName = user.FormattedName()
	}
	for _, entry := range entries {
		req.Entries = append(req.Entries, RenderEntry{
			TimeSlot: entry.TimeSlot.Format("15:04"),
			Content:  entry.Content,
		})
	}

	pdf, err := s.renderer.RenderShiftLog(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to render shift log: %w", err)
	}

	relPath := filepath.Join("log_pdfs", fmt.Sprintf("log_%s_%d.pdf", summary.SummaryID, time.Now().Unix()))
	fullPath := filepath.Join(s.mediaRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}
	if err := os.WriteFile(fullPath, pdf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	if err := s.summaries.AttachDocument(ctx, summary.SummaryID, relPath); err != nil {
		return "", fmt.Errorf("failed to attach document: %w", err)
	}

	s.logger.Info("shift log document stored",
		zap.String("summary_id", summary.SummaryID),
		zap.String("path", relPath),
	)
	return relPath, nil
}
