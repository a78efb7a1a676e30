package simco

import (
	"context"

	"github.com/unleex/simchain/pkg/errors"
)

// PPHPLs computes profit per hour per labor for the given resource IDs
// in a realm. With a nil or empty ids slice, every cataloged resource
// is computed.
//
// For each resource:
//
//	pphpl = (vwap − Σ inputVWAP×quantity) × producedAnHour − wages × (1 + adminOverhead)
//
// Aerospace end products cannot be sold to the exchange and are pinned
// to 0. A resource or recipe input with no VWAP is a MISSING_PROFIT
// lookup error: a silently defaulted price would produce a plausible
// but wrong profit figure.
//
// The full per-realm map is computed and cached per (realm,
// adminOverhead); ids only filter the returned view, so changing the
// filter never invalidates the cache. refresh recomputes from freshly
// fetched VWAPs and catalog data.
func (c *Client) PPHPLs(ctx context.Context, realm Realm, ids []int, adminOverhead float64, refresh bool) (map[int]float64, error) {
	pphpls := make(map[int]float64)
	err := c.cached(ctx, cacheKey("pphpl", realm, adminOverhead), refresh, &pphpls, func() error {
		vwaps, err := c.VWAPs(ctx, realm, refresh)
		if err != nil {
			return err
		}
		resources, err := c.Resources(ctx, realm, refresh)
		if err != nil {
			return err
		}

		for _, r := range resources {
			if aerospaceEndProducts[r.ID] {
				pphpls[r.ID] = 0
				continue
			}

			vwap, ok := vwaps[r.ID]
			if !ok {
				return errors.New(errors.ErrCodeMissingProfit, "no VWAP for resource %d", r.ID)
			}

			inputCost := 0.0
			for key, in := range r.Inputs {
				inputID, err := InputID(key)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "resource %d recipe", r.ID)
				}
				inputVWAP, ok := vwaps[inputID]
				if !ok {
					return errors.New(errors.ErrCodeMissingProfit, "no VWAP for resource %d input %d", r.ID, inputID)
				}
				inputCost += inputVWAP * in.Quantity
			}

			pphpls[r.ID] = (vwap-inputCost)*r.ProducedAnHour - r.Wages*(1+adminOverhead)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return pphpls, nil
	}
	filtered := make(map[int]float64, len(ids))
	for _, id := range ids {
		if v, ok := pphpls[id]; ok {
			filtered[id] = v
		}
	}
	return filtered, nil
}
