// Package source provides suggest.Source implementations.
//
// Words matches a query against an in-memory vocabulary with fuzzy
// subsequence scoring. Remote queries an HTTP endpoint returning JSON and
// Claude asks an Anthropic model for related tags. Cached and Throttled
// wrap any source with a TTL cache or a rate limit:
//
//	src := source.NewCached(
//		source.NewThrottled(source.NewRemote(url), 5, 1),
//		time.Minute, 512,
//	)
//	defer src.Close()
package source
