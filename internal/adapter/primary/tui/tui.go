package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"moviesearch/internal/core"
	"moviesearch/internal/domain"
)

const eventBuffer = 16

// Run starts a pipeline over repo and drives it from the terminal until the
// user quits. A pipeline fault ends the UI and is returned.
func Run(ctx context.Context, repo domain.MovieRepository, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fault error
	store := core.NewStore(repo,
		core.WithLogger(log),
		core.WithGuard(core.Preconditions),
		core.WithFaultHandler(func(err error) { fault = err }),
	)

	events := make(chan domain.Event, eventBuffer)
	events <- domain.ScreenLoad{}
	states := store.Render(ctx, events)

	p := tea.NewProgram(NewModel(events, states), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	interrupted := ctx.Err() != nil
	close(events)
	cancel()
	for range states {
	}

	if fault != nil {
		return fmt.Errorf("pipeline fault: %w", fault)
	}
	if err != nil && !interrupted {
		return err
	}
	return nil
}
