package cache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/modscope/modscope/cache"
)

func ExampleNewMemoryCache() {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	key := cache.NewDefaultKeyer().Key("get_type", "v1", "/mod/app", "Widget")
	_ = c.Set(ctx, key, []byte(`{"kind":"typeDetail","version":"v1"}`), 5*time.Minute)

	if payload, ok := c.Get(ctx, key); ok {
		fmt.Println(string(payload))
	}
	// Output:
	// {"kind":"typeDetail","version":"v1"}
}

func ExampleMemoryCache_Delete() {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "stale-entry", []byte("old result"), time.Hour)
	_ = c.Delete(ctx, "stale-entry")

	_, ok := c.Get(ctx, "stale-entry")
	fmt.Println("still cached:", ok)

	// deleting an absent key is not an error
	fmt.Println("delete missing:", c.Delete(ctx, "never-existed"))
	// Output:
	// still cached: false
	// delete missing: <nil>
}

func ExampleNewDefaultKeyer() {
	keyer := cache.NewDefaultKeyer()

	// One key per operation + contract version + normalized parameters
	key1 := keyer.Key("list_members", "v1", "/mod/app", "MyType", true)
	fmt.Println("Key prefix:", key1[:15])

	// Deterministic - same inputs produce the same key
	key2 := keyer.Key("list_members", "v1", "/mod/app", "MyType", true)
	fmt.Println("Keys match:", key1 == key2)

	// Any differing parameter produces a different key
	key3 := keyer.Key("list_members", "v1", "/mod/app", "MyType", false)
	fmt.Println("Different params, different key:", key1 != key3)
	// Output:
	// Key prefix: list_members:v1
	// Keys match: true
	// Different params, different key: true
}

func ExampleDefaultPolicy() {
	policy := cache.DefaultPolicy()

	fmt.Println("Default TTL:", policy.DefaultTTL)
	fmt.Println("Max TTL:", policy.MaxTTL)
	fmt.Println("Should cache:", policy.ShouldCache())
	// Output:
	// Default TTL: 5m0s
	// Max TTL: 1h0m0s
	// Should cache: true
}

func ExampleNoCachePolicy() {
	policy := cache.NoCachePolicy()

	fmt.Println("Should cache:", policy.ShouldCache())
	// Output:
	// Should cache: false
}

func ExamplePolicy_EffectiveTTL() {
	policy := cache.Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     1 * time.Hour,
	}

	// No override - uses default
	fmt.Println("No override:", policy.EffectiveTTL(0))

	// Reasonable override - uses as-is
	fmt.Println("10min override:", policy.EffectiveTTL(10*time.Minute))

	// Excessive override - clamped to max
	fmt.Println("2hr override (clamped):", policy.EffectiveTTL(2*time.Hour))
	// Output:
	// No override: 5m0s
	// 10min override: 10m0s
	// 2hr override (clamped): 1h0m0s
}

func ExampleNewMiddleware() {
	mw := cache.NewMiddleware(cache.NewMemoryCache(), cache.DefaultPolicy())
	ctx := context.Background()

	producer := func(ctx context.Context) ([]byte, error) {
		fmt.Println("producing")
		return []byte(`{"kind":"typeList"}`), nil
	}

	key := cache.NewDefaultKeyer().Key("list_types", "v1", "/mod/app")

	// First call produces and stores
	payload, hit, _ := mw.Execute(ctx, key, false, producer)
	fmt.Println("hit:", hit, "payload:", string(payload))

	// Second call is served from cache
	payload, hit, _ = mw.Execute(ctx, key, false, producer)
	fmt.Println("hit:", hit, "payload:", string(payload))
	// Output:
	// producing
	// hit: false payload: {"kind":"typeList"}
	// hit: true payload: {"kind":"typeList"}
}
