package mcp

import (
	"context"

	"github.com/claude/lifts/internal/models"
	"github.com/claude/lifts/internal/tracker"
)

// DataSource abstracts lift state for MCP tools. Both *tracker.Tracker (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Lifts(ctx context.Context) ([]models.Lift, error)
	Detail(ctx context.Context, ref string) (*models.LiftDetail, error)
	SetWorkWeight(ctx context.Context, ref string, workWeight float64) (*models.LiftDetail, error)
	SetNotes(ctx context.Context, ref, notes string) (*models.Lift, error)
}

// Compile-time check: *tracker.Tracker satisfies DataSource.
var _ DataSource = (*tracker.Tracker)(nil)
