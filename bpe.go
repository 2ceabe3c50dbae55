package tiktoken

// noRank is the sentinel meaning "no merge candidate exists here", playing
// the role of +Inf in spec.md 4.2's algorithm description.
const noRank Rank = ^Rank(0)

// mergeState holds the cut points of the intrusive doubly-linked list that
// the byte-pair merge loop walks, one node per index. Index i is not itself the byte
// offset: pos[i] holds that. next/prev hold indices into the same parallel
// arrays, not byte offsets, so removing a node is an O(1) pointer splice
// with no shifting of the arrays that back it (spec.md 9).
type mergeState struct {
	pos  []int
	next []int
	prev []int
	rank []Rank
}

// rankOf returns the merge-table rank of piece[from:to], or noRank if the
// slice is not a key.
func rankOf(table MergeTable, piece []byte, from, to int) Rank {
	if r, ok := table[string(piece[from:to])]; ok {
		return r
	}
	return noRank
}

// candidateRank computes the cached rank stored at node i: the rank of the
// merge candidate formed by node i's segment and the segment immediately
// to its right, i.e. piece[pos[i]:pos[next[next[i]]]].
func (m *mergeState) candidateRank(table MergeTable, piece []byte, i int) Rank {
	j := m.next[i]
	if j < 0 {
		return noRank
	}
	k := m.next[j]
	if k < 0 {
		return noRank
	}
	return rankOf(table, piece, m.pos[i], m.pos[k])
}

// mergeBytePairs runs the byte-pair merge loop over piece and returns the
// surviving cut points as a mergeState whose live chain (follow next[] from
// the head, index 0, to -1) enumerates the final segmentation in order.
//
// Complexity: each of the m merge steps does O(1) list-splice work plus an
// O(n) scan to find the minimum-rank candidate (spec.md 4.2 requires O(1)
// removal; finding the global minimum via a scan keeps total work at
// O(n*m), the bound spec.md fixes). Ties break leftmost, matching the
// left-to-right scan with a strict less-than comparison below.
func mergeBytePairs(table MergeTable, piece []byte) *mergeState {
	n := len(piece)
	m := &mergeState{
		pos:  make([]int, n+1),
		next: make([]int, n+1),
		prev: make([]int, n+1),
		rank: make([]Rank, n+1),
	}
	for i := 0; i <= n; i++ {
		m.pos[i] = i
		if i == n {
			m.next[i] = -1
		} else {
			m.next[i] = i + 1
		}
		m.prev[i] = i - 1
	}
	for i := 0; i < n; i++ {
		m.rank[i] = m.candidateRank(table, piece, i)
	}

	for {
		minRank := noRank
		minIdx := -1
		for i := 0; i != -1 && m.next[i] != -1; i = m.next[i] {
			if m.rank[i] < minRank {
				minRank = m.rank[i]
				minIdx = i
			}
		}
		if minIdx == -1 || minRank == noRank {
			break
		}

		removed := m.next[minIdx]
		after := m.next[removed]
		m.next[minIdx] = after
		if after != -1 {
			m.prev[after] = minIdx
		}

		m.rank[minIdx] = m.candidateRank(table, piece, minIdx)
		if p := m.prev[minIdx]; p != -1 {
			m.rank[p] = m.candidateRank(table, piece, p)
		}
	}
	return m
}

// encodePiece implements the BPE merge engine's contract: piece must be
// non-empty. If the whole piece is itself a key, its rank is returned
// directly without running the merge loop.
func encodePiece(table MergeTable, piece []byte) Tokens {
	if r, ok := table[string(piece)]; ok {
		return Tokens{r}
	}
	m := mergeBytePairs(table, piece)
	out := make(Tokens, 0, len(piece))
	for i := 0; m.next[i] != -1; i = m.next[i] {
		out = append(out, rankOf(table, piece, m.pos[i], m.pos[m.next[i]]))
	}
	return out
}

// splitPiece returns the byte slices the merge loop settles on, rather than
// their ranks. Used only in tests, per spec.md 4.2.
func splitPiece(table MergeTable, piece []byte) [][]byte {
	if _, ok := table[string(piece)]; ok {
		return [][]byte{piece}
	}
	m := mergeBytePairs(table, piece)
	out := make([][]byte, 0, len(piece))
	for i := 0; m.next[i] != -1; i = m.next[i] {
		out = append(out, piece[m.pos[i]:m.pos[m.next[i]]])
	}
	return out
}
