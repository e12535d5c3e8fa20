package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

const defaultDriftBatch = 500

type reconcileCountersWorker struct {
	comments  domain.CommentRepository
	articles  domain.ArticleRepository
	directory domain.ArticleDirectory
	interval  time.Duration
	fix       bool
	batch     int
}

var _ domain.CounterReconciler = (*reconcileCountersWorker)(nil)

// NewReconcileCountersWorker looks for reply_count and comment_count drift every
// interval. Drift is always logged. With fix set, each drifted counter is
// recounted in place so bumps committed since the scan are not overwritten.
func NewReconcileCountersWorker(c domain.CommentRepository, a domain.ArticleRepository, dir domain.ArticleDirectory, interval time.Duration, fix bool) *reconcileCountersWorker {
	return &reconcileCountersWorker{
		comments:  c,
		articles:  a,
		directory: dir,
		interval:  interval,
		fix:       fix,
		batch:     defaultDriftBatch,
	}
}

func (w *reconcileCountersWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logrus.Info("counter reconciliation disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				logrus.Errorf("counter reconciliation failed: %v", err)
			}
			if _, err := w.directory.Warm(ctx); err != nil {
				logrus.Warnf("failed to re-warm article filter: %v", err)
			}
		case <-ctx.Done():
			logrus.Info("shutting down ReconcileCountersWorker")
			return
		}
	}
}

func (w *reconcileCountersWorker) RunOnce(ctx context.Context) (domain.ReconcileReport, error) {
	report := domain.ReconcileReport{Fixed: w.fix}

	replyDrifts, err := w.comments.ReplyCountDrift(ctx, w.batch)
	if err != nil {
		return report, err
	}
	report.ReplyDrifts = replyDrifts
	for _, d := range replyDrifts {
		w.log("comment.reply_count", d)
		if w.fix {
			if err := w.comments.RecountReplies(ctx, d.ID); err != nil {
				return report, err
			}
		}
	}

	articleDrifts, err := w.articles.CommentCountDrift(ctx, w.batch)
	if err != nil {
		return report, err
	}
	report.ArticleDrifts = articleDrifts
	for _, d := range articleDrifts {
		w.log("article.comment_count", d)
		if w.fix {
			if err := w.articles.RecountComments(ctx, d.ID); err != nil {
				return report, err
			}
		}
	}

	if !report.Clean() {
		logrus.Infof("counter reconciliation found %d reply and %d article drifts (fixed=%v)",
			len(report.ReplyDrifts), len(report.ArticleDrifts), w.fix)
	}
	return report, nil
}

func (w *reconcileCountersWorker) log(counter string, d domain.CounterDrift) {
	logrus.WithFields(logrus.Fields{
		"counter": counter,
		"id":      d.ID,
		"stored":  d.Stored,
		"actual":  d.Actual,
		"fix":     w.fix,
	}).Warn("counter drift")
}
