package remote

import (
	"context"
	"sort"
)

// SaveRecord writes a partial payload while enforcing the single-record
// invariant:
//
//  1. query all records for the account;
//  2. if none exist, create a new record from the partial payload;
//  3. if several exist, keep the newest (updatedAt desc, createdAt fallback) and
//     delete the extras best-effort, logging failures without aborting;
//  4. update the kept record with its stored fields overlaid by the
//     partial payload, so untouched field groups are never lost.
//
// Extras produced by a device race are collapsed here on the next save from
// either device; field groups only ever written to a collapsed extra are
// lost. That weak-consistency trade-off is deliberate.
func (c *RESTClient) SaveRecord(ctx context.Context, accountID string, partial Fields) (*Record, error) {
	records, err := c.QueryRecords(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		c.log.Info(ctx, "no remote record, creating", "account_id", accountID)
		return c.CreateRecord(ctx, accountID, partial)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].SortTime().After(records[j].SortTime())
	})
	keep, extras := records[0], records[1:]

	if len(extras) > 0 {
		c.log.Warn(ctx, "duplicate remote records found, collapsing",
			"account_id", accountID, "extras", len(extras))
		for _, rec := range extras {
			if err := c.DeleteRecord(ctx, rec.ID); err != nil {
				c.log.Error(ctx, "failed to delete duplicate record",
					"record_id", rec.ID, "error", err)
			}
		}
	}

	merged := keep.Fields.Clone()
	if merged == nil {
		merged = Fields{}
	}
	for key, value := range partial {
		merged[key] = value
	}

	return c.UpdateRecord(ctx, keep.ID, merged)
}

// LoadRecord returns the newest record for the account, or nil when none
// exists. Stray duplicates are tolerated here; they are only collapsed on
// the next save.
func (c *RESTClient) LoadRecord(ctx context.Context, accountID string) (*Record, error) {
	records, err := c.QueryRecords(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	if len(records) > 1 {
		c.log.Warn(ctx, "multiple remote records on load, using newest",
			"account_id", accountID, "count", len(records))
		sort.Slice(records, func(i, j int) bool {
			return records[i].SortTime().After(records[j].SortTime())
		})
	}
	return records[0], nil
}
