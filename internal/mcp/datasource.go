package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironcycle/internal/engine"
	"github.com/meltforce/ironcycle/internal/models"
	"github.com/meltforce/ironcycle/internal/program"
	"github.com/meltforce/ironcycle/internal/storage"
)

// DataSource abstracts the program state for MCP tools. Local (direct
// database plus service) and HTTPClient (remote via REST API) both
// satisfy this interface.
type DataSource interface {
	CurrentCycle(ctx context.Context) (*models.Cycle, error)
	ListTemplates(ctx context.Context) ([]storage.TemplateSummary, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error)
	GetTrainingMaxes(ctx context.Context, cycleID uuid.UUID) (map[string]float64, error)
	QueryLiftLogs(ctx context.Context, cycleID uuid.UUID, lift string) ([]models.LiftLog, error)
	DayPlan(ctx context.Context, cycleID uuid.UUID, week, day int) ([]engine.ResolvedItem, error)
	LogStructuredSet(ctx context.Context, cycleID uuid.UUID, lift string, week, day, setIndex, reps int) (*float64, error)
	QuerySetHistory(ctx context.Context, start, end time.Time, lift string) ([]models.SetArchiveRow, error)
}

// Local serves MCP tools straight from the database and program service.
type Local struct {
	DB  *storage.DB
	Svc *program.Service
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

func (l *Local) CurrentCycle(ctx context.Context) (*models.Cycle, error) {
	return l.DB.CurrentCycle(ctx)
}

func (l *Local) ListTemplates(ctx context.Context) ([]storage.TemplateSummary, error) {
	return l.DB.ListTemplates(ctx)
}

func (l *Local) GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	return l.DB.GetTemplate(ctx, id)
}

func (l *Local) GetTrainingMaxes(ctx context.Context, cycleID uuid.UUID) (map[string]float64, error) {
	return l.DB.GetTrainingMaxes(ctx, cycleID)
}

func (l *Local) QueryLiftLogs(ctx context.Context, cycleID uuid.UUID, lift string) ([]models.LiftLog, error) {
	return l.DB.QueryLiftLogs(ctx, cycleID, lift)
}

func (l *Local) DayPlan(ctx context.Context, cycleID uuid.UUID, week, day int) ([]engine.ResolvedItem, error) {
	return l.Svc.ResolveDay(ctx, cycleID, week, day)
}

func (l *Local) LogStructuredSet(ctx context.Context, cycleID uuid.UUID, lift string, week, day, setIndex, reps int) (*float64, error) {
	return l.Svc.LogStructuredSet(ctx, cycleID, lift, week, day, setIndex, reps)
}

func (l *Local) QuerySetHistory(ctx context.Context, start, end time.Time, lift string) ([]models.SetArchiveRow, error) {
	return l.DB.QuerySetArchive(ctx, start, end, lift)
}
