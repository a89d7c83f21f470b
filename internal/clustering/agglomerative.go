// Package clustering groups log lines by structural similarity: an
// agglomerative (connected-component) clusterer driven by parallel BFS, and
// a 1-D two-means threshold classifier used to pick the similarity cutoff
// that feeds the clusterer's edge predicate.
package clustering

import (
	"runtime"
	"sync"
)

// EdgePredicate reports whether nodes i and j belong in the same cluster.
// It must be symmetric: EdgePredicate(i, j) == EdgePredicate(j, i).
type EdgePredicate func(i, j int) bool

// Cluster is a set of node indices agglomerated together by Agglomerative.
type Cluster map[int]struct{}

// Agglomerative partitions the nodes [0, n) into clusters of transitively
// connected nodes.
//
// Each pass picks up to runtime.NumCPU() (floored at 1) seeds from the
// still-unclustered nodes and runs one read-only BFS per seed concurrently:
// every BFS only consults connected, never shares or mutates state with the
// others, so seeds cannot race each other mid-traversal. Once all of a
// pass's BFS tasks finish, the results are resolved serially: a component
// is accepted (and its nodes removed from further consideration) unless an
// earlier component accepted in the same pass already claimed its seed, in
// which case it is a duplicate discovery of the same component and is
// discarded. This repeats until every node has been claimed.
func Agglomerative(n int, connected EdgePredicate) []Cluster {
	if n == 0 {
		return nil
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	var clusters []Cluster
	for len(remaining) > 0 {
		batch := remaining
		if len(batch) > workers {
			batch = batch[:workers]
		}

		results := make([]Cluster, len(batch))
		var wg sync.WaitGroup
		for i, seed := range batch {
			wg.Add(1)
			go func(i, seed int) {
				defer wg.Done()
				results[i] = bfs(seed, n, connected)
			}(i, seed)
		}
		wg.Wait()

		claimed := make(map[int]struct{}, len(remaining))
		for i, seed := range batch {
			if _, already := claimed[seed]; already {
				continue
			}
			cluster := results[i]
			clusters = append(clusters, cluster)
			for node := range cluster {
				claimed[node] = struct{}{}
			}
		}

		next := remaining[:0]
		for _, node := range remaining {
			if _, done := claimed[node]; !done {
				next = append(next, node)
			}
		}
		remaining = next
	}
	return clusters
}

// bfs computes the full set of nodes transitively connected to seed. It
// consults only connected and never mutates or reads any state shared with
// other calls, so multiple bfs calls can safely run concurrently.
func bfs(seed, n int, connected EdgePredicate) Cluster {
	cluster := Cluster{seed: struct{}{}}
	queue := []int{seed}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for j := 0; j < n; j++ {
			if j == cur {
				continue
			}
			if _, already := cluster[j]; already {
				continue
			}
			if !connected(cur, j) {
				continue
			}
			cluster[j] = struct{}{}
			queue = append(queue, j)
		}
	}
	return cluster
}
