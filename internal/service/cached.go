package service

import "context"

const (
	keyGroupsPrefix  = "groups:"
	keyGroupNames    = keyGroupsPrefix + "names"
	keyGroupsAll     = keyGroupsPrefix + "all"
	keyGroupDefault  = keyGroupsPrefix + "default"
	keyGroupByIDBase = keyGroupsPrefix + "id:"
)

// cached serves key from c when possible. Reads inside a transaction always
// go to storage so they observe the transaction's own writes.
func cached[T any](ctx context.Context, c Cache, tx Transactor, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || tx.InTransaction(ctx) {
		return load(ctx)
	}

	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	c.Set(key, v)

	return v, nil
}

// invalidate drops prefix from c once the current transaction commits.
func invalidate(ctx context.Context, c Cache, tx Transactor, prefix string) {
	if c == nil {
		return
	}
	tx.AfterCommit(ctx, func() {
		c.InvalidatePrefix(prefix)
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
