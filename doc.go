// Package fuzzygo provides approximate (fuzzy) string matching for Go,
// built on Myers' bit-parallel edit-distance automaton.
//
// A Matcher is constructed once per pattern and finds all end positions
// in a text where the pattern matches within a maximum edit distance.
// For any reported end position the exact start position and the edit
// script (alignment) can be reconstructed lazily, without re-scanning
// the text.
//
// Fuzzygo supports:
//
//   - O(1) word operations per text symbol for patterns up to one
//     machine word (8-64 symbols depending on the chosen word type)
//   - Three search protocols: eager end-only, full (start+end), and
//     lazy with random-access reconstruction
//   - Generic word and distance types: Matcher[uint64, uint32] down to
//     Matcher[uint8, uint8] for short patterns and tight memory
//   - Scan snapshots: persist a lazy scan (optionally LZ4/zstd
//     compressed) and answer reconstruction queries offline, including
//     from object storage (S3, MinIO) or memory-mapped local files
//   - Concurrent batch scanning over many texts with resource limits
//
// # Quick Start
//
// Find all matches of a pattern within edit distance 1:
//
//	m, err := fuzzygo.New64([]byte("ACGT"))
//	if err != nil {
//	    panic(err)
//	}
//
//	hits, err := m.Search(text).MaxDist(1).Execute(ctx)
//	if err != nil {
//	    panic(err)
//	}
//	for _, h := range hits {
//	    fmt.Printf("%d..%d dist=%d\n", h.Start, h.End, h.Distance)
//	}
//
// End positions only (no reconstruction cost, safe to run concurrently):
//
//	it := m.FindAllEnd(text, 1)
//	for end, dist := range it.Seq() {
//	    process(end, dist)
//	}
//
// Lazy reconstruction at arbitrary visited positions:
//
//	lm, err := m.FindAllLazy(text, 2)
//	if err != nil {
//	    panic(err)
//	}
//	defer lm.Close()
//	for {
//	    end, dist, ok := lm.Next()
//	    if !ok {
//	        break
//	    }
//	    if interesting(end, dist) {
//	        start, _, _ := lm.HitAt(end)
//	        use(start, end)
//	    }
//	}
//
// # Concurrency
//
// A Matcher is immutable after construction and safe for concurrent
// end-only scans. The full and lazy protocols append to a shared
// history buffer and therefore require exclusive access: at most one
// such search may be active per Matcher, enforced at runtime. Use one
// Matcher per goroutine for concurrent stateful searches.
package fuzzygo
