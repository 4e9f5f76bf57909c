package miniball

// NodeData describes a single node in a spatial tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64 // radius of the node's minimum enclosing ball
}

// SpatialTree is the read interface of a spatial index over flat row-major
// point data.
type SpatialTree interface {
	// QueryKNN finds the k nearest neighbors for each row in queryData.
	// queryData is flat row-major with queryRows rows.
	// Returns per-query neighbor indices and distances (both sorted by distance).
	QueryKNN(queryData []float64, queryRows, k int) (indices [][]int, distances [][]float64)

	// QueryRadius returns the indices of all points within distance r of query.
	QueryRadius(query []float64, r float64) []int

	// Data returns the flat row-major point data owned by the tree.
	Data() []float64

	// NumPoints returns the number of points in the tree.
	NumPoints() int

	// NumFeatures returns the dimensionality of each point.
	NumFeatures() int

	// IdxArray returns the permutation array mapping tree-order positions
	// back to original point indices.
	IdxArray() []int

	// NodeDataArray returns the metadata for every node in the tree, in
	// ascending node-ID order, without unused slots.
	NodeDataArray() []NodeData
}

var _ SpatialTree = (*BallTree)(nil)
