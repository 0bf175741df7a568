package fuzzygo_test

import (
	"context"
	"fmt"
	"log"

	fuzzygo "github.com/hupe1980/fuzzygo"
	"github.com/hupe1980/fuzzygo/alignment"
)

func ExampleMatcher_FindAllEnd() {
	m, err := fuzzygo.New64([]byte("ACGT"))
	if err != nil {
		log.Fatal(err)
	}

	for end, dist := range m.FindAllEnd([]byte("ACGTXACXT"), 1).Seq() {
		fmt.Printf("end=%d dist=%d\n", end, dist)
	}
	// Output:
	// end=2 dist=1
	// end=3 dist=0
	// end=4 dist=1
	// end=8 dist=1
}

func ExampleMatcher_FindAll() {
	m, err := fuzzygo.New64([]byte("GATTACA"))
	if err != nil {
		log.Fatal(err)
	}

	text := []byte("XGATTTACAY")
	fm, err := m.FindAll(text, 1)
	if err != nil {
		log.Fatal(err)
	}
	defer fm.Close()

	var ops []alignment.Operation
	for {
		start, end, dist, ok := fm.NextPath(&ops)
		if !ok {
			break
		}
		fmt.Printf("%q dist=%d ops=%v\n", text[start:end], dist, ops)
	}
	// Output:
	// "GATTTACA" dist=1 ops=[M M M M I M M M]
}

func ExampleSearchBuilder() {
	m, err := fuzzygo.New64([]byte("hello"))
	if err != nil {
		log.Fatal(err)
	}

	hit, err := m.Search([]byte("say helo world")).
		MaxDist(1).
		Best(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("start=%d end=%d dist=%d\n", hit.Start, hit.End, hit.Distance)
	// Output:
	// start=4 end=8 dist=1
}
