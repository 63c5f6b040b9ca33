package predict

import (
	"runtime"
	"sync"
)

// WorkItem names one genome alignment file ready for prediction.
type WorkItem struct {
	Seq     int
	Genome  string
	GFFPath string
}

// WorkResult holds the predicted gene set for a single genome.
type WorkResult struct {
	Seq    int
	Genome string
	Genes  *GeneSet
	Err    error
}

// ParallelPredict predicts gene sets for work items using a pool of
// workers. Each genome is independent, so items can run concurrently; the
// per-group inference itself stays single-threaded. Results arrive in
// completion order; use OrderedCollect to consume them in sequence order.
// If workers is 0, runtime.NumCPU() is used.
func (p *Predictor) ParallelPredict(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				genes, err := p.PredictFile(item.GFFPath)
				results <- WorkResult{
					Seq:    item.Seq,
					Genome: item.Genome,
					Genes:  genes,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results are buffered in a pending map and emitted as soon as
// the next expected sequence number is available. Blocks until the results
// channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
