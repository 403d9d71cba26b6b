// Package speakerdex recommends conference speakers for a free-text
// query using embedding similarity over speaker profiles.
//
// The Client wraps the full pipeline: profile documents are embedded
// and indexed once via Build, then Recommend embeds each query and
// returns the closest speakers with a lexical relevance explanation.
//
//	client, err := speakerdex.New(
//		speakerdex.WithOpenAI(apiKey, baseURL, "Qwen/Qwen3-Embedding-8B"),
//		speakerdex.WithDatasetPath("data/speakers.json"),
//	)
//	if err != nil { ... }
//	if err := client.Build(ctx); err != nil { ... }
//	recs, err := client.Recommend(ctx, "drone autonomy expert", 5)
package speakerdex
