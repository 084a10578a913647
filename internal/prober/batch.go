package prober

import (
	"context"
	"sync"

	"github.com/pilot-net/fleetwatch/pkg/types"
)

// ProbeBatch fans devices out across up to maxParallel concurrent probes,
// the same bounded-semaphore shape the teacher's scheduler uses to batch
// tier probes, and collects every result before returning. Result order is
// not guaranteed to match device order.
func (p *Prober) ProbeBatch(ctx context.Context, devices []types.Device, maxParallel int) []types.ProbeResult {
	if maxParallel <= 0 {
		maxParallel = 1
	}

	results := make([]types.ProbeResult, 0, len(devices))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxParallel)

	for _, d := range devices {
		d := d
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			r := p.Probe(ctx, d.ID, d.Address)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}
