package tiktoken

import "fmt"

// specialNode is a rune trie node, adapted from the teacher's RuneNode.
// Where the teacher's tree answered "does this text contain a special
// token" incrementally while streaming, this one is built once, at
// construction time, purely to answer a structural question: does any
// special token's text run all the way through another's, making the
// shorter one ambiguous with a prefix of the longer?
type specialNode struct {
	terminal string // the marker ending here, or "" if none does
	childs   map[rune]*specialNode
}

func newSpecialNode() *specialNode {
	return &specialNode{childs: make(map[rune]*specialNode)}
}

func buildSpecialTrie(markers map[string]Rank) *specialNode {
	root := newSpecialNode()
	for marker := range markers {
		node := root
		runes := []rune(marker)
		for i, r := range runes {
			child, ok := node.childs[r]
			if !ok {
				child = newSpecialNode()
				node.childs[r] = child
			}
			if i == len(runes)-1 {
				child.terminal = marker
			}
			node = child
		}
	}
	return root
}

// assertNoOverlap walks the trie and fails if any marker is a strict
// prefix of another: a terminal node with children means the string
// ending there is also a prefix of some longer marker, which would make
// the special-token regex alternation ambiguous about how far to extend a
// match (spec.md 9, Open Question (b)).
func assertNoOverlap(markers map[string]Rank) error {
	root := buildSpecialTrie(markers)
	return walkForOverlap(root)
}

func walkForOverlap(node *specialNode) error {
	if node.terminal != "" && len(node.childs) > 0 {
		for _, child := range node.childs {
			if longer := firstTerminalBelow(child); longer != "" {
				return fmt.Errorf(
					"tiktoken: special token %q is a prefix of special token %q",
					node.terminal, longer)
			}
		}
	}
	for _, child := range node.childs {
		if err := walkForOverlap(child); err != nil {
			return err
		}
	}
	return nil
}

func firstTerminalBelow(node *specialNode) string {
	if node.terminal != "" {
		return node.terminal
	}
	for _, child := range node.childs {
		if t := firstTerminalBelow(child); t != "" {
			return t
		}
	}
	return ""
}
