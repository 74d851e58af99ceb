// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import "sort"

// Options is a set of byte strings, indexed as a prefix trie so a
// BufferedSource can identify which (if any) of them prefixes its
// upcoming bytes in a single pass, without backtracking or scanning the
// candidates one at a time.
type Options struct {
	byteStrings []ByteString
	trie        []int
}

// NewOptions builds an Options trie over byteStrings. When one byte
// string is a prefix of another, Select returns the longer one if the
// input matches it; when the same byte string is listed more than once,
// Select returns the earliest index.
func NewOptions(byteStrings ...ByteString) *Options {
	order := make([]int, len(byteStrings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return byteStrings[order[i]].Compare(byteStrings[order[j]]) < 0
	})

	o := &Options{byteStrings: byteStrings}
	o.trie = buildTrie(byteStrings, order)
	return o
}

// node is a scratch representation of one trie level used only while
// building the flat encoding; it never escapes NewOptions.
type node struct {
	// selectIndices are indices into byteStrings whose bytes are fully
	// consumed at this node, ordered by original input order so the
	// earliest-listed option wins on ambiguity.
	selectIndices []int
	children      map[byte]*node
}

func newNode() *node { return &node{children: map[byte]*node{}} }

func buildTrie(byteStrings []ByteString, order []int) []int {
	root := newNode()
	for _, idx := range order {
		cur := root
		bs := byteStrings[idx]
		for i := 0; i < bs.Len(); i++ {
			c := bs.At(i)
			next, ok := cur.children[c]
			if !ok {
				next = newNode()
				cur.children[c] = next
			}
			cur = next
		}
		cur.selectIndices = append(cur.selectIndices, idx)
	}

	var flat []int
	var encode func(n *node) int
	encode = func(n *node) int {
		selfIdx := -1
		if len(n.selectIndices) > 0 {
			sort.Ints(n.selectIndices)
			selfIdx = n.selectIndices[0]
		}

		keys := make([]byte, 0, len(n.children))
		for k := range n.children {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		pos := len(flat)
		flat = append(flat, selfIdx, len(keys))
		flat = append(flat, make([]int, len(keys)*2)...)
		for i, k := range keys {
			childPos := encode(n.children[k])
			flat[pos+2+i*2] = int(k)
			flat[pos+2+i*2+1] = childPos
		}
		return pos
	}
	encode(root)
	return flat
}

// Select consumes from src the bytes of whichever registered byte
// string is the longest match for src's upcoming content, and returns
// its index in the byteStrings passed to NewOptions, or -1 if none
// matches. On no match, no bytes are consumed.
func (o *Options) Select(src *BufferedSource) (int, error) {
	pos := 0
	bestIdx, bestLen := -1, 0
	consumed := 0
	for {
		selfIdx, numChildren := o.trie[pos], o.trie[pos+1]
		if selfIdx != -1 {
			bestIdx, bestLen = selfIdx, consumed
		}
		if numChildren == 0 {
			break
		}
		ok, err := src.Request(int64(consumed + 1))
		if err != nil {
			return -1, err
		}
		if !ok {
			break
		}
		c, err := src.peekByteAt(consumed)
		if err != nil {
			break
		}
		matched := false
		for i := 0; i < numChildren; i++ {
			childByte := byte(o.trie[pos+2+i*2])
			if childByte == c {
				pos = o.trie[pos+2+i*2+1]
				consumed++
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	if bestIdx == -1 {
		return -1, nil
	}
	if err := src.skip(int64(bestLen)); err != nil {
		return -1, err
	}
	return bestIdx, nil
}
