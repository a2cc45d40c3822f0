// services/dualpath.go
package services

import (
	"context"
	"log"
)

// DualPathCreator tries the remote managed-function path first and falls
// back to the direct store path on transport failure only. The two attempts
// are strictly sequential: one logical request produces at most one series.
//
// Declared application errors (invalid input, missing lead) propagate
// without fallback; retrying them against the store would fail identically.
// When both paths fail the local error is surfaced because it carries the
// most specific diagnostic, but both are logged in full.
type DualPathCreator struct {
	remote SeriesCreator
	local  SeriesCreator
}

func NewDualPathCreator(remote, local SeriesCreator) *DualPathCreator {
	return &DualPathCreator{remote: remote, local: local}
}

func (d *DualPathCreator) CreateSeries(ctx context.Context, req CreateSeriesRequest) (*CreateSeriesResult, error) {
	var remoteErr error

	if d.remote != nil {
		result, err := d.remote.CreateSeries(ctx, req)
		if err == nil {
			return result, nil
		}
		if KindOf(err) != ErrTransport {
			return nil, err
		}
		remoteErr = err
		log.Printf("[dual-path] remote create failed, falling back to direct store: %v", remoteErr)
	}

	result, err := d.local.CreateSeries(ctx, req)
	if err != nil {
		if remoteErr != nil {
			log.Printf("[dual-path] both paths failed; remote: %v, local: %v", remoteErr, err)
		}
		return nil, err
	}
	return result, nil
}
