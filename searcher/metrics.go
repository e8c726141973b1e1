package searcher

import (
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat"
)

type SearchMetric struct {
	ID                  string
	Determinizations    int
	StartTime           time.Time
	Duration            time.Duration
	Iterations          int
	TerminalEvaluations int64
	Rollouts            int64
	ExpiredWorkers      int64 // determinizations skipped because the deadline had passed
	WorkerIterations    []int
	MeanIterations      float64
	StdDevIterations    float64
}

// Collector gathers search metrics. Add methods are called from worker
// goroutines concurrently.
type Collector interface {
	Start(id string, determinizations int)
	AddIteration()
	AddTerminal()
	AddRollout()
	AddExpired()
	Complete(workerIterations []int) SearchMetric
}

type collector struct {
	id               string
	determinizations int
	startTime        time.Time
	iterations       atomic.Int64
	terminals        atomic.Int64
	rollouts         atomic.Int64
	expired          atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(id string, determinizations int) {
	m.id = id
	m.determinizations = determinizations
	m.startTime = time.Now()
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddTerminal() {
	m.terminals.Add(1)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddExpired() {
	m.expired.Add(1)
}

func (m *collector) Complete(workerIterations []int) SearchMetric {
	metric := SearchMetric{
		ID:                  m.id,
		Determinizations:    m.determinizations,
		StartTime:           m.startTime,
		Duration:            time.Since(m.startTime),
		Iterations:          int(m.iterations.Load()),
		TerminalEvaluations: m.terminals.Load(),
		Rollouts:            m.rollouts.Load(),
		ExpiredWorkers:      m.expired.Load(),
		WorkerIterations:    workerIterations,
	}
	if len(workerIterations) > 0 {
		xs := make([]float64, len(workerIterations))
		for i, n := range workerIterations {
			xs[i] = float64(n)
		}
		metric.MeanIterations, metric.StdDevIterations = stat.MeanStdDev(xs, nil)
	}
	return metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(id string, determinizations int) {}
func (m *dummyCollector) AddIteration()                         {}
func (m *dummyCollector) AddTerminal()                          {}
func (m *dummyCollector) AddRollout()                           {}
func (m *dummyCollector) AddExpired()                           {}
func (m *dummyCollector) Complete(workerIterations []int) SearchMetric {
	return SearchMetric{}
}
