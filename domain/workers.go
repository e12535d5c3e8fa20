package domain

import "context"

// ReconcileReport summarises one reconciliation pass
type ReconcileReport struct {
	ReplyDrifts   []CounterDrift
	ArticleDrifts []CounterDrift
	Fixed         bool
}

func (r ReconcileReport) Clean() bool {
	return len(r.ReplyDrifts) == 0 && len(r.ArticleDrifts) == 0
}

type CounterReconciler interface {
	Start(ctx context.Context)

	// RunOnce recomputes both counters from source rows, correcting them when
	// the reconciler was built with fixing enabled.
	RunOnce(ctx context.Context) (ReconcileReport, error)
}
