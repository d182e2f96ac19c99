package reconcile

import (
	"context"
	"sort"
	"time"

	"craft-catalog/core/storage"
)

// ReconcileAll compares every entity of both sources. Results are sorted by ID.
func ReconcileAll(ctx context.Context, spec *Spec, client storage.Client, bucket string) ([]Result, error) {
	cache, err := loadCache(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}

	union := buildUnion(cache.LocalIndex, cache.CanonicalIndex)
	results := make([]Result, 0, len(union))
	for id := range union {
		results = append(results, buildResult(id, cache, spec.Adapter))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results, nil
}

// Run performs ReconcileAll and summarizes the results.
func Run(ctx context.Context, spec *Spec, client storage.Client, bucket string) (*Report, error) {
	results, err := ReconcileAll(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}
	return &Report{
		Results:     results,
		Summary:     Summarize(results),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// ReconcileOne reconciles the single entity selected by query. An entity found in
// neither source yields a result with both presence flags false.
func ReconcileOne(ctx context.Context, spec *Spec, client storage.Client, bucket string, query Query) (*Result, error) {
	cache, err := loadCache(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}

	id := findID(query, cache, spec.Adapter)
	if id == "" {
		return &Result{ID: query.ID, Name: query.Name, Mismatch: []string{}}, nil
	}
	result := buildResult(id, cache, spec.Adapter)
	return &result, nil
}

// Summarize counts presence and mismatches over results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case !r.CanonicalPresent:
			s.MissingCanonical++
		case !r.LocalPresent:
			s.MissingLocal++
		case len(r.Mismatch) > 0:
			s.Mismatches++
		default:
			s.Matched++
		}
	}
	return s
}

func loadCache(ctx context.Context, spec *Spec, client storage.Client, bucket string) (*Cache, error) {
	if spec.CacheTTL > 0 {
		return GetOrBuildCache(ctx, spec, client, bucket)
	}
	return BuildCache(ctx, spec, client, bucket)
}

func buildUnion(local, canonical map[string]Entry) map[string]struct{} {
	union := make(map[string]struct{}, len(local)+len(canonical))
	for id := range local {
		union[id] = struct{}{}
	}
	for id := range canonical {
		union[id] = struct{}{}
	}
	return union
}

func buildResult(id string, cache *Cache, adapter Adapter) Result {
	local, localPresent := cache.LocalIndex[id]
	canonical, canonicalPresent := cache.CanonicalIndex[id]

	result := Result{
		ID:               id,
		LocalPresent:     localPresent,
		CanonicalPresent: canonicalPresent,
		Mismatch:         []string{},
	}
	result.Name = adapter.ResolveName(local, canonical)
	result.Metadata = adapter.GetMetadata(local, canonical)

	if localPresent && canonicalPresent {
		if mismatches := adapter.CompareFields(local, canonical); len(mismatches) > 0 {
			result.Mismatch = mismatches
		}
	}
	return result
}

// findID resolves a query to an entity ID, preferring a direct ID hit.
func findID(query Query, cache *Cache, adapter Adapter) string {
	if query.ID != "" {
		if _, ok := cache.LocalIndex[query.ID]; ok {
			return query.ID
		}
		if _, ok := cache.CanonicalIndex[query.ID]; ok {
			return query.ID
		}
	}
	if query.ID == "" && query.Name == "" {
		return ""
	}

	ids := make([]string, 0, len(cache.LocalIndex)+len(cache.CanonicalIndex))
	for id := range buildUnion(cache.LocalIndex, cache.CanonicalIndex) {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if adapter.MatchQuery(query, id, cache.LocalIndex[id], cache.CanonicalIndex[id]) {
			return id
		}
	}
	return ""
}
