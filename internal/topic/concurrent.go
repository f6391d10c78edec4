package topic

import (
	"context"
	"sync"

	"oposiciones/quiz-extract/internal/logging"
)

// outcome is the result of one topic, tagged with its position in the request.
type outcome struct {
	index  int
	tema   int
	result *Result
	err    error
}

// processTopics processes temas with up to opts.Workers goroutines and
// returns the outcomes in request order.
func (p *Processor) processTopics(ctx context.Context, temas []int) []outcome {
	if p.opts.Workers <= 1 || len(temas) < 2 {
		return p.processSequential(ctx, temas)
	}
	return p.processConcurrent(ctx, temas)
}

func (p *Processor) processSequential(ctx context.Context, temas []int) []outcome {
	outcomes := make([]outcome, 0, len(temas))
	for i, tema := range temas {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, outcome{index: i, tema: tema, err: err})
			break
		}
		res, err := p.ProcessTopic(ctx, tema)
		outcomes = append(outcomes, outcome{index: i, tema: tema, result: res, err: err})
	}
	return outcomes
}

func (p *Processor) processConcurrent(ctx context.Context, temas []int) []outcome {
	workers := p.opts.Workers
	if workers > len(temas) {
		workers = len(temas)
	}

	jobs := make(chan int, workers)
	results := make(chan outcome, len(temas))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, temas, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i := range temas {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]*outcome, len(temas))
	for o := range results {
		o := o
		ordered[o.index] = &o
	}

	outcomes := make([]outcome, 0, len(temas))
	for i, o := range ordered {
		if o == nil {
			// never dispatched: the context was cancelled
			outcomes = append(outcomes, outcome{index: i, tema: temas[i], err: ctx.Err()})
			break
		}
		outcomes = append(outcomes, *o)
	}

	p.logger.Debug("Concurrent topic processing completed",
		logging.F(logging.FieldCount, len(temas)),
		logging.F(logging.FieldWorkers, workers))
	return outcomes
}

func (p *Processor) worker(ctx context.Context, wg *sync.WaitGroup, temas []int, jobs <-chan int, results chan<- outcome) {
	defer wg.Done()
	for i := range jobs {
		tema := temas[i]
		if err := ctx.Err(); err != nil {
			results <- outcome{index: i, tema: tema, err: err}
			continue
		}
		res, err := p.ProcessTopic(ctx, tema)
		results <- outcome{index: i, tema: tema, result: res, err: err}
	}
}
