package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	apperrors "sheetops/internal/errors"
	"sheetops/models"
	"sheetops/ports"
)

// StoreFactory builds a fresh table store for one suite. Every suite runs
// against its own store and backing file, which is what allows suites to
// run in parallel without breaking the single-writer rule per table.
type StoreFactory func(ctx context.Context, suite string) (*TableStore, error)

// ScenarioRunner replays suite files of command envelopes through a
// dispatcher and checks each step's reward and feedback against the
// suite's expectations.
type ScenarioRunner struct {
	newStore    StoreFactory
	observer    ports.Observer
	concurrency int64
}

// NewScenarioRunner creates a runner that executes at most concurrency
// suites at once.
func NewScenarioRunner(newStore StoreFactory, observer ports.Observer, concurrency int) *ScenarioRunner {
	if observer == nil {
		observer = ports.NoOpObserver{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScenarioRunner{
		newStore:    newStore,
		observer:    observer,
		concurrency: int64(concurrency),
	}
}

// LoadSuite reads and validates one suite file. A missing name defaults to
// the file's base name.
func LoadSuite(path string) (models.ScenarioSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ScenarioSuite{}, apperrors.Wrap(err, "failed to read suite file "+path)
	}

	var suite models.ScenarioSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return models.ScenarioSuite{}, apperrors.Wrap(err, "failed to parse suite file "+path)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(suite.Steps) == 0 {
		return models.ScenarioSuite{}, apperrors.ValidationError(fmt.Sprintf("suite %s has no steps", suite.Name))
	}
	return suite, nil
}

// LoadSuites loads every *.json suite file in dir, in name order.
func LoadSuites(dir string) ([]models.ScenarioSuite, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan suite directory "+dir)
	}
	if len(matches) == 0 {
		return nil, apperrors.ValidationError("no suite files found in " + dir)
	}
	sort.Strings(matches)

	suites := make([]models.ScenarioSuite, 0, len(matches))
	for _, path := range matches {
		suite, err := LoadSuite(path)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// RunSuite executes one suite against a fresh store. A setup failure is
// reported on the suite, not returned, so a bad suite never aborts a run.
func (r *ScenarioRunner) RunSuite(ctx context.Context, suite models.ScenarioSuite) models.SuiteReport {
	report := models.SuiteReport{
		RunID: uuid.New(),
		Suite: suite.Name,
	}

	start := time.Now()
	store, err := r.newStore(ctx, suite.Name)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	dispatcher := NewCommandDispatcher(store, r.observer)

	for i, step := range suite.Steps {
		stepStart := time.Now()
		reward, feedback := dispatcher.Process(ctx, step.Command)
		result := models.StepResult{
			Index:    i,
			Label:    step.Label,
			Reward:   reward,
			Feedback: feedback,
			Passed:   stepPassed(step, reward, feedback),
			Duration: float64(time.Since(stepStart).Nanoseconds()) / 1e6,
		}
		if result.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Steps = append(report.Steps, result)
	}

	report.Duration = float64(time.Since(start).Nanoseconds()) / 1e6
	return report
}

// RunAll executes the suites with bounded parallelism and aggregates the
// per-suite reports into one run report.
func (r *ScenarioRunner) RunAll(ctx context.Context, suites []models.ScenarioSuite) (models.ScenarioReport, error) {
	sem := semaphore.NewWeighted(r.concurrency)
	var wg sync.WaitGroup
	reports := make([]models.SuiteReport, len(suites))

	for i, suite := range suites {
		if err := sem.Acquire(ctx, 1); err != nil {
			return models.ScenarioReport{}, apperrors.Wrap(err, "scenario run interrupted")
		}
		wg.Add(1)
		go func(idx int, s models.ScenarioSuite) {
			defer wg.Done()
			defer sem.Release(1)
			reports[idx] = r.RunSuite(ctx, s)
		}(i, suite)
	}
	wg.Wait()

	run := models.ScenarioReport{
		RunID:  uuid.New(),
		Suites: reports,
	}
	var durations []float64
	for _, sr := range reports {
		run.TotalSteps += len(sr.Steps)
		run.PassedSteps += sr.Passed
		run.FailedSteps += sr.Failed
		for _, step := range sr.Steps {
			durations = append(durations, step.Duration)
		}
	}
	if run.TotalSteps > 0 {
		run.SuccessRate = float64(run.PassedSteps) / float64(run.TotalSteps)
	}

	latency, err := latencySummary(durations)
	if err != nil {
		return run, apperrors.Wrap(err, "failed to summarize latency")
	}
	run.Latency = latency
	return run, nil
}

// stepPassed checks one step's outcome against its expectations. Feedback
// is matched as a substring so suites stay robust to resolved coordinates.
func stepPassed(step models.ScenarioStep, reward int, feedback string) bool {
	if reward != step.ExpectReward {
		return false
	}
	if step.ExpectFeedback != "" && !strings.Contains(feedback, step.ExpectFeedback) {
		return false
	}
	return true
}

func latencySummary(durations []float64) (models.LatencySummary, error) {
	var summary models.LatencySummary
	if len(durations) == 0 {
		return summary, nil
	}

	mean, err := stats.Mean(durations)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(durations)
	if err != nil {
		return summary, err
	}
	p95, err := stats.Percentile(durations, 95)
	if err != nil {
		return summary, err
	}

	summary.MeanMs = mean
	summary.MedianMs = median
	summary.P95Ms = p95
	return summary, nil
}
