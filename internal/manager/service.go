package manager

import (
	"context"
	"errors"

	"github.com/stacklok/instsrc/internal/resolvable"
	"github.com/stacklok/instsrc/internal/source"
)

// ErrNotStarted is returned by CheckReadiness before StartManager succeeded
var ErrNotStarted = errors.New("source manager not started")

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go Service

// Service is the operation surface of the source manager
type Service interface {
	// CheckReadiness reports whether StartManager has completed
	CheckReadiness(ctx context.Context) error

	StartManager(ctx context.Context, targetRoot string, autoEnable bool) error
	FinishAll(ctx context.Context, targetRoot string) error
	SaveRanks(ctx context.Context, targetRoot string) error

	Scan(ctx context.Context, url, productDir string) ([]source.ID, error)
	Create(ctx context.Context, url, productDir string) (source.ID, error)
	SetEnabled(ctx context.Context, id source.ID, enabled bool) error
	SetAutorefresh(ctx context.Context, id source.ID, autorefresh bool) error
	SetPriority(ctx context.Context, id source.ID, delta int) error
	Delete(ctx context.Context, id source.ID) error
	EditGet(ctx context.Context) []source.State
	EditSet(ctx context.Context, states []source.State) error
	GetCurrent(ctx context.Context, enabledOnly bool) []source.ID
	GeneralData(ctx context.Context, id source.ID) (source.Source, error)
	ProductData(ctx context.Context, id source.ID) (resolvable.Metadata, error)

	GetSelections(ctx context.Context, status resolvable.StatusFilter, category string) ([]string, error)
	GetPatterns(ctx context.Context, status resolvable.StatusFilter, category string) ([]string, error)
	SelectionData(ctx context.Context, name string) (resolvable.Metadata, error)
	PatternData(ctx context.Context, name string) (resolvable.Metadata, error)
	SelectionContent(ctx context.Context, name string, toDelete bool, locale string) ([]string, error)
	PatternContent(ctx context.Context, name, locale string) ([]string, error)
	SetSelection(ctx context.Context, name string) error
	ClearSelection(ctx context.Context, name string) error
	SetPattern(ctx context.Context, name string) error
	ClearPattern(ctx context.Context, name string) error
}

var _ Service = (*Manager)(nil)

// CheckReadiness implements Service.CheckReadiness
func (m *Manager) CheckReadiness(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return ErrNotStarted
	}
	return nil
}
