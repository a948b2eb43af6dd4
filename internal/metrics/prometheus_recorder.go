package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	buildDuration      prom.Histogram
	stageResults       *prom.CounterVec
	buildOutcome       *prom.CounterVec
	posts              prom.Gauge
	categories         prom.Gauge
	filesWritten       prom.Counter
	linkIssues         *prom.CounterVec
	categoryCollisions prom.Counter
}

// NewPrometheusRecorder creates the metrics and registers them on reg. A nil
// reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		posts: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "posts",
			Help:      "Posts in the last build",
		}),
		categories: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "categories",
			Help:      "Categories in the last build",
		}),
		filesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Output files written",
		}),
		linkIssues: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "link_issues_total",
			Help:      "Link verification issues by reason",
		}, []string{"reason"}),
		categoryCollisions: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "category_collisions_total",
			Help:      "Category display names folded into another name with the same slug",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.posts, pr.categories, pr.filesWritten, pr.linkIssues, pr.categoryCollisions)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPosts(n int)      { p.posts.Set(float64(n)) }
func (p *PrometheusRecorder) SetCategories(n int) { p.categories.Set(float64(n)) }

func (p *PrometheusRecorder) AddFilesWritten(n int) {
	p.filesWritten.Add(float64(n))
}

func (p *PrometheusRecorder) IncLinkIssues(reason string, n int) {
	p.linkIssues.WithLabelValues(reason).Add(float64(n))
}

func (p *PrometheusRecorder) IncCategoryCollisions(n int) {
	p.categoryCollisions.Add(float64(n))
}
