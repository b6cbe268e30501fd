package qsieve

import (
	"context"
	"sync"

	"github.com/bfix/qsieve/concurrent"
	bn "github.com/bfix/qsieve/math"
)

// blockJob is one unit of dispatched work: sieve the block starting at
// start, blockSize wide.
type blockJob struct {
	start *bn.Int
}

// blockDispatch implements concurrent.Dispatchable, handing out block
// jobs to a fixed worker pool and accumulating results until at least
// target relations have been found.
type blockDispatch struct {
	sieve  *BlockSieve
	target int

	mu    sync.Mutex
	found []Relation
}

func (d *blockDispatch) Worker(ctx context.Context, _ int, taskCh chan blockJob, resCh chan []Relation) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-taskCh:
			if !ok {
				return
			}
			// the dispatcher stops reading results once Eval reported
			// enough relations, so never send unconditionally.
			select {
			case resCh <- d.sieve.searchBlockFrom(job.start):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (d *blockDispatch) Eval(result []Relation) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.found = append(d.found, result...)
	return len(d.found) >= d.target
}

// RunParallel dispatches block searches across a worker pool: each
// worker claims the next unclaimed block in sequence, so (unlike
// LogSieve.RunParallel's fixed batch-per-round) a fast worker can pick
// up more blocks than a slow one instead of idling at a barrier. The
// dispatcher stops itself once Eval reports enough relations found;
// Process then starts returning false and the feed loop below exits.
func (s *BlockSieve) RunParallel(totalNumbers int, workers int) []Relation {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	disp := &blockDispatch{sieve: s, target: totalNumbers}
	d := concurrent.NewDispatcher[blockJob, []Relation](ctx, workers, disp)

	blockSize := bn.ConvertUsize(s.blockSize)
	start := s.nextBlock
	for d.Process(blockJob{start: start}) {
		start = start.WrappingAdd(blockSize)
	}
	s.nextBlock = start

	disp.mu.Lock()
	defer disp.mu.Unlock()
	return disp.found
}
