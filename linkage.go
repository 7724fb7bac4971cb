package spatialcart

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// WardLinkage performs agglomerative clustering of the rows of m under
// Ward's minimum-variance criterion and returns the merge history in
// scipy linkage format: each row is [left, right, distance, mergedSize],
// with merged cluster IDs starting at n and incrementing. Pair selection
// is deterministic: the smallest distance wins, ties broken by the
// smaller index pair. Returns nil for fewer than two rows.
func WardLinkage(m *mat.Dense) [][4]float64 {
	n, _ := m.Dims()
	if n < 2 {
		return nil
	}
	total := 2*n - 1

	// Working squared-distance matrix over all 2n-1 cluster IDs, updated
	// with the Lance–Williams recurrence after each merge. Singleton
	// distances are squared Euclidean, so reported merge heights
	// (the square roots) match Euclidean distances between single rows.
	d2 := make([]float64, total*total)
	for i := 0; i < n; i++ {
		a := m.RawRowView(i)
		for j := i + 1; j < n; j++ {
			b := m.RawRowView(j)
			var sum float64
			for c := range a {
				d := a[c] - b[c]
				sum += d * d
			}
			d2[i*total+j] = sum
			d2[j*total+i] = sum
		}
	}

	active := make([]bool, total)
	size := make([]float64, total)
	for i := 0; i < n; i++ {
		active[i] = true
		size[i] = 1
	}

	out := make([][4]float64, 0, n-1)
	next := n

	for merge := 0; merge < n-1; merge++ {
		a, b := -1, -1
		best := math.Inf(1)
		for i := 0; i < next; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < next; j++ {
				if active[j] && d2[i*total+j] < best {
					best = d2[i*total+j]
					a, b = i, j
				}
			}
		}

		merged := size[a] + size[b]
		out = append(out, [4]float64{float64(a), float64(b), math.Sqrt(best), merged})

		for w := 0; w < next; w++ {
			if !active[w] || w == a || w == b {
				continue
			}
			d := ((size[a]+size[w])*d2[a*total+w] +
				(size[b]+size[w])*d2[b*total+w] -
				size[w]*best) / (merged + size[w])
			d2[next*total+w] = d
			d2[w*total+next] = d
		}

		active[a], active[b] = false, false
		active[next] = true
		size[next] = merged
		next++
	}

	return out
}

// CutMaxClust cuts a linkage produced by WardLinkage into flat clusters
// under the "maxclust" criterion: merges are applied up to the lowest
// height that yields no more than maxClusters clusters. Equal-height
// merges are applied together (the cut is a height threshold, not a
// merge count), so ties can leave fewer clusters than requested.
//
// n is the number of original rows. Returns one 1-indexed, contiguous
// cluster ID per row, assigned in order of first row occurrence.
func CutMaxClust(linkage [][4]float64, n, maxClusters int) []int {
	if maxClusters < 1 {
		maxClusters = 1
	}

	labels := make([]int, n)
	if maxClusters >= n || len(linkage) == 0 {
		for i := range labels {
			labels[i] = i + 1
		}
		return labels
	}

	// Ward heights are monotone, so applying the first n-maxClusters
	// merges leaves exactly maxClusters clusters; the cutoff height then
	// pulls in any later merges at the same height.
	cutoff := linkage[n-maxClusters-1][2]
	parent := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = -1
	}
	for i, row := range linkage {
		if row[2] > cutoff {
			break
		}
		parent[int(row[0])] = n + i
		parent[int(row[1])] = n + i
	}

	next := 1
	roots := make(map[int]int, maxClusters)
	for i := 0; i < n; i++ {
		r := i
		for parent[r] != -1 {
			r = parent[r]
		}
		id, ok := roots[r]
		if !ok {
			id = next
			roots[r] = id
			next++
		}
		labels[i] = id
	}

	return labels
}
