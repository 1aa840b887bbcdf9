package batch

import (
	"context"

	"shelver/internal/library"
	"shelver/internal/reorganize"
	"shelver/internal/services"
)

// ReorganizeRequest selects the books and layout of a reorganization.
type ReorganizeRequest struct {
	Destination         string
	Scope               string
	IncludeUnclassified bool
	Operation           reorganize.Operation
	OnCollision         reorganize.CollisionPolicy
}

func (r ReorganizeRequest) planRequest() reorganize.Request {
	return reorganize.Request{
		Destination:         r.Destination,
		Operation:           r.Operation,
		IncludeUnclassified: r.IncludeUnclassified,
	}
}

// PlanReorganize builds the plan for the books under the request's scope.
// It touches no files and takes no lock.
func (c *Coordinator) PlanReorganize(ctx context.Context, req ReorganizeRequest) (reorganize.Plan, error) {
	books, err := c.store.List(services.WithStage(ctx, "reorganize_preview"), library.NormalizeScope(req.Scope))
	if err != nil {
		return reorganize.Plan{}, services.Wrap(services.ErrTransient, "batch", "plan reorganize", "list books", err)
	}
	return reorganize.Build(books, req.planRequest())
}

// ApplyReorganize plans and applies a reorganization as one run. The plan
// is built inside the run so it reflects the index at apply time.
func (c *Coordinator) ApplyReorganize(ctx context.Context, req ReorganizeRequest, progress ProgressFunc) (reorganize.Result, error) {
	ctx, run, err := c.begin(ctx, KindReorganize, req.Scope)
	if err != nil {
		return reorganize.Result{}, err
	}

	books, err := c.store.List(ctx, run.Scope)
	if err != nil {
		err = services.Wrap(services.ErrTransient, "batch", "apply reorganize", "list books", err)
		c.finish(ctx, run, err)
		return reorganize.Result{}, err
	}
	plan, err := reorganize.Build(books, req.planRequest())
	if err != nil {
		c.finish(ctx, run, err)
		return reorganize.Result{}, err
	}
	c.setTotal(run, len(plan.Moves))

	result, err := c.executor(req.OnCollision).Apply(ctx, plan, func(_, _ int, move reorganize.PlannedMove) {
		c.advance(run, move.EbookID, move.SourcePath, progress)
	})
	c.finish(ctx, run, err)
	return result, err
}
