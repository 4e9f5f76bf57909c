package miniball

import (
	"container/heap"
	"math"
	"sort"
)

// BallTree is a Euclidean ball tree whose node bounds are exact minimum
// enclosing balls rather than centroid-based approximations. Tighter balls
// prune more subtrees during nearest-neighbor and range queries.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
//   - balls[i] is the minimum enclosing ball of the points under node i
type BallTree struct {
	data     []float64 // flat row-major point data (n * dims)
	n        int       // number of points
	dims     int       // dimensionality
	leafSize int
	idxArray []int      // permutation: tree-order position → original index
	nodes    []NodeData // one entry per tree node
	balls    []Ball
	numNodes int
	scale    float64 // max |coordinate|, for rounding slack on node radii
	ps       *PointSet
}

// NewBallTree builds a ball tree from flat row-major data with n points of
// dimensionality dims. leafSize controls the max points per leaf node. Node
// balls are solved concurrently using cfg.Workers goroutines.
func NewBallTree(data []float64, n, dims, leafSize int, cfg Config) (*BallTree, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	ps, err := NewPointSetFlat(data, n, dims)
	if err != nil {
		return nil, err
	}
	if leafSize < 1 {
		leafSize = 1
	}

	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := maxTreeNodes(n, leafSize)
	t := &BallTree{
		data:     ps.data,
		n:        n,
		dims:     dims,
		leafSize: leafSize,
		idxArray: idxArray,
		nodes:    make([]NodeData, maxNodes),
		scale:    ps.Scale(),
		ps:       ps,
	}

	t.buildNode(0, 0, n)
	t.numNodes = countNodes(t.nodes, 0, len(t.nodes))
	t.balls = make([]Ball, len(t.nodes))

	// Node bounds are independent, so solve them across workers.
	parallelFor(t.numNodesAllocated(), cfg.Workers, func(node int) {
		if !t.nodeExists(node) {
			return
		}
		t.balls[node] = t.solveNode(node, cfg)
	})
	for i := range t.nodes {
		if t.nodeExists(i) {
			t.nodes[i].Radius = t.balls[i].Radius
		}
	}

	return t, nil
}

// maxTreeNodes returns an upper bound on the number of nodes needed for a
// binary tree with n points and the given leaf size.
func maxTreeNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	// Depth of tree: ceil(log2(ceil(n/leafSize))) + 1.
	// Number of nodes in a complete binary tree of depth d = 2^(d+1) - 1.
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	v := 1
	for v < leaves {
		v *= 2
		depth++
	}
	return (1 << (depth + 1)) - 1 + 2 // +2 for safety margin
}

// countNodes counts how many nodes were actually initialized.
func countNodes(nodes []NodeData, nodeID, maxNodes int) int {
	if nodeID >= maxNodes {
		return 0
	}
	if nodes[nodeID].IdxStart == 0 && nodes[nodeID].IdxEnd == 0 && nodeID != 0 {
		return 0
	}
	count := 1
	if !nodes[nodeID].IsLeaf {
		count += countNodes(nodes, 2*nodeID+1, maxNodes)
		count += countNodes(nodes, 2*nodeID+2, maxNodes)
	}
	return count
}

func (t *BallTree) numNodesAllocated() int { return len(t.nodes) }

// nodeExists reports whether node was initialized by the build.
func (t *BallTree) nodeExists(node int) bool {
	if node >= len(t.nodes) {
		return false
	}
	nd := t.nodes[node]
	return node == 0 || nd.IdxEnd > nd.IdxStart
}

// buildNode recursively partitions idxArray[start:end] by the median of the
// dimension with the greatest spread.
func (t *BallTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
	}

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true}
		return
	}
	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: false}

	splitDim := t.findSpreadDim(start, end)
	t.sortByDim(start, end, splitDim)
	mid := start + count/2

	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

// solveNode computes the minimum enclosing ball of the points in node, with
// its support in original point indices.
func (t *BallTree) solveNode(node int, cfg Config) Ball {
	nd := t.nodes[node]
	return *solveSubset(t.ps, t.idxArray[nd.IdxStart:nd.IdxEnd], cfg)
}

// findSpreadDim returns the dimension with the greatest spread among
// points in idxArray[start:end].
func (t *BallTree) findSpreadDim(start, end int) int {
	bestDim := 0
	bestSpread := -1.0
	for d := 0; d < t.dims; d++ {
		minVal := math.Inf(1)
		maxVal := math.Inf(-1)
		for i := start; i < end; i++ {
			v := t.data[t.idxArray[i]*t.dims+d]
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
		if spread := maxVal - minVal; spread > bestSpread {
			bestSpread = spread
			bestDim = d
		}
	}
	return bestDim
}

// sortByDim sorts idxArray[start:end] by the given dimension.
func (t *BallTree) sortByDim(start, end, dim int) {
	sub := t.idxArray[start:end]
	dims := t.dims
	data := t.data
	sort.SliceStable(sub, func(i, j int) bool {
		return data[sub[i]*dims+dim] < data[sub[j]*dims+dim]
	})
}

func (t *BallTree) point(i int) []float64 {
	return t.data[i*t.dims : (i+1)*t.dims]
}

// --- SpatialTree interface ---

func (t *BallTree) Data() []float64           { return t.data }
func (t *BallTree) NumPoints() int            { return t.n }
func (t *BallTree) NumFeatures() int          { return t.dims }
func (t *BallTree) IdxArray() []int           { return t.idxArray }
func (t *BallTree) NumNodes() int             { return t.numNodes }

// NodeDataArray returns the metadata of every node in ascending node-ID
// order. Node IDs follow the array layout and may skip unused slots, so the
// position of an entry is not its node ID.
func (t *BallTree) NodeDataArray() []NodeData {
	out := make([]NodeData, 0, t.numNodes)
	for i := range t.nodes {
		if t.nodeExists(i) {
			out = append(out, t.nodes[i])
		}
	}
	return out
}

// NodeBall returns the minimum enclosing ball of the points under node.
// Support indices refer to the original point order.
func (t *BallTree) NodeBall(node int) Ball { return t.balls[node] }

// ChildNodes returns the left and right child node indices.
// Behavior is undefined for leaf nodes.
func (t *BallTree) ChildNodes(node int) (left, right int) {
	return 2*node + 1, 2*node + 2
}

// outerRadius pads the radius of node's ball by the rounding slack that the
// solver allows points to stick out by.
func (t *BallTree) outerRadius(node int) float64 {
	r := t.balls[node].Radius
	return r + containsSlack*(r+t.scale)
}

// MinDistPoint returns a lower bound on the distance between point and any
// point in the given node.
func (t *BallTree) MinDistPoint(node int, point []float64) float64 {
	return math.Max(Distance(point, t.balls[node].Center)-t.outerRadius(node), 0)
}

// MinDistDual returns a lower bound on the distance between any point in
// node1 and any point in node2.
func (t *BallTree) MinDistDual(node1, node2 int) float64 {
	d := Distance(t.balls[node1].Center, t.balls[node2].Center)
	return math.Max(d-t.outerRadius(node1)-t.outerRadius(node2), 0)
}

// QueryKNN finds the k nearest neighbors for each row in queryData.
func (t *BallTree) QueryKNN(queryData []float64, queryRows, k int) ([][]int, [][]float64) {
	indices := make([][]int, queryRows)
	distances := make([][]float64, queryRows)

	for q := 0; q < queryRows; q++ {
		query := queryData[q*t.dims : (q+1)*t.dims]
		h := &knnHeap{}
		heap.Init(h)
		if k > 0 {
			t.knnSearch(0, query, k, h)
		}

		nResults := h.Len()
		idx := make([]int, nResults)
		dist := make([]float64, nResults)
		for i := nResults - 1; i >= 0; i-- {
			item := heap.Pop(h).(knnItem)
			idx[i] = item.index
			dist[i] = item.dist
		}
		indices[q] = idx
		distances[q] = dist
	}

	return indices, distances
}

// knnSearch performs a single-tree KNN traversal.
func (t *BallTree) knnSearch(nodeID int, query []float64, k int, h *knnHeap) {
	if !t.nodeExists(nodeID) {
		return
	}
	node := t.nodes[nodeID]

	if node.IsLeaf {
		for i := node.IdxStart; i < node.IdxEnd; i++ {
			ptIdx := t.idxArray[i]
			d := Distance(query, t.point(ptIdx))
			if h.Len() < k {
				heap.Push(h, knnItem{index: ptIdx, dist: d})
			} else if d < (*h)[0].dist {
				(*h)[0] = knnItem{index: ptIdx, dist: d}
				heap.Fix(h, 0)
			}
		}
		return
	}

	left, right := t.ChildNodes(nodeID)
	leftDist := t.MinDistPoint(left, query)
	rightDist := t.MinDistPoint(right, query)

	nearChild, farChild := left, right
	farDist := rightDist
	if rightDist < leftDist {
		nearChild, farChild = right, left
		farDist = leftDist
	}

	t.knnSearch(nearChild, query, k, h)

	if h.Len() < k || farDist < (*h)[0].dist {
		t.knnSearch(farChild, query, k, h)
	}
}

// QueryRadius returns the original indices of all points within distance r
// of query, in ascending order.
func (t *BallTree) QueryRadius(query []float64, r float64) []int {
	var out []int
	t.radiusSearch(0, query, r, &out)
	sort.Ints(out)
	return out
}

func (t *BallTree) radiusSearch(nodeID int, query []float64, r float64, out *[]int) {
	if !t.nodeExists(nodeID) || t.MinDistPoint(nodeID, query) > r {
		return
	}
	node := t.nodes[nodeID]

	// Whole node inside the query ball: no per-point checks needed.
	if Distance(query, t.balls[nodeID].Center)+t.outerRadius(nodeID) <= r {
		*out = append(*out, t.idxArray[node.IdxStart:node.IdxEnd]...)
		return
	}

	if node.IsLeaf {
		for i := node.IdxStart; i < node.IdxEnd; i++ {
			ptIdx := t.idxArray[i]
			if Distance(query, t.point(ptIdx)) <= r {
				*out = append(*out, ptIdx)
			}
		}
		return
	}
	left, right := t.ChildNodes(nodeID)
	t.radiusSearch(left, query, r, out)
	t.radiusSearch(right, query, r, out)
}

// --- max-heap for KNN queries ---

type knnItem struct {
	index int
	dist  float64
}

// knnHeap is a max-heap of knnItem (largest distance on top) used as a
// bounded priority queue for KNN queries.
type knnHeap []knnItem

func (h knnHeap) Len() int            { return len(h) }
func (h knnHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist } // max-heap
func (h knnHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *knnHeap) Push(x interface{}) { *h = append(*h, x.(knnItem)) }
func (h *knnHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
