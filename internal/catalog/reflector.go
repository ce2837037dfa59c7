package catalog

import (
	"context"

	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// Describe resolves the descriptor of schema.table: its column list in
// ordinal order and its primary-key column set. Descriptors are memoized in
// the inspector's cache; Invalidate drops them along with everything else.
//
// A table without a primary key yields a valid descriptor with an empty key
// set. That state is degraded, not broken: reads work, reconciliation will
// refuse it.
func (c *Inspector) Describe(ctx context.Context, schema, table string) (*core.TableDescriptor, error) {
	key := schema + "." + table

	c.mu.RLock()
	cached, ok := c.descriptors[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := c.group.Do("describe:"+key, func() (any, error) {
		desc, err := c.drv.Describe(ctx, schema, table)
		if err != nil {
			return nil, core.Wrap(core.KindReflection, err, "describe %s.%s", schema, table)
		}
		c.mu.Lock()
		c.descriptors[key] = desc
		c.mu.Unlock()
		return desc, nil
	})
	if err != nil {
		return nil, err
	}
	desc, _ := v.(*core.TableDescriptor)
	return desc, nil
}

// DescribeFresh drops any memoized descriptor for schema.table and resolves
// it again from the live database.
func (c *Inspector) DescribeFresh(ctx context.Context, schema, table string) (*core.TableDescriptor, error) {
	c.mu.Lock()
	delete(c.descriptors, schema+"."+table)
	c.mu.Unlock()
	return c.Describe(ctx, schema, table)
}
