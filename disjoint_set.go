package maze

// Implements the disjoint set data structure from CLRS over a flat arena of
// integer elements. Element i's parent is parent[i]; roots are their own
// parent.
type disjointSet struct {
	parent []int
	rank   []uint8
	// The number of distinct sets remaining.
	count int
}

// Returns a disjointSet with n elements, each in a set containing only itself.
func newDisjointSet(n int) *disjointSet {
	toReturn := &disjointSet{
		parent: make([]int, n),
		rank:   make([]uint8, n),
		count:  n,
	}
	for i := range toReturn.parent {
		toReturn.parent[i] = i
	}
	return toReturn
}

// Finds the unique "root" of the set containing x. Compresses the path from x
// to the root as it goes.
func (s *disjointSet) find(x int) int {
	root := x
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for s.parent[x] != root {
		next := s.parent[x]
		s.parent[x] = root
		x = next
	}
	return root
}

// Returns true if x and y are in the same set.
func (s *disjointSet) same(x, y int) bool {
	return s.find(x) == s.find(y)
}

// Merges the sets containing x and y. Returns false, without changing
// anything, if they were already in the same set.
func (s *disjointSet) union(x, y int) bool {
	a := s.find(x)
	b := s.find(y)
	if a == b {
		return false
	}
	if s.rank[a] > s.rank[b] {
		s.parent[b] = a
	} else {
		s.parent[a] = b
		if s.rank[a] == s.rank[b] {
			s.rank[b]++
		}
	}
	s.count--
	return true
}

// Returns the number of distinct sets.
func (s *disjointSet) components() int {
	return s.count
}
